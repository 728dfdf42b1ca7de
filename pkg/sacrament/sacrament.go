package sacrament

// SacramentType is a catalog entry for a bookable sacrament. The catalog is
// seeded by migrations and used by the booking path only for validation.
type SacramentType struct {
	ID          int
	Name        string
	DisplayName string
}
