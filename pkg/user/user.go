package user

// User is the authenticated requester identity. It is resolved by the
// X-User-Id middleware and trusted as-is; authentication itself happens
// upstream of this service.
type User struct {
	Id          int
	Uid         string
	DisplayName string
	Email       string
}
