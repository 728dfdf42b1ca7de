package event

import "errors"

// Event is a parish calendar entry. Date and Time are empty for unscheduled
// drafts; scheduled events carry both.
type Event struct {
	UID         string
	Title       string
	Date        string
	Time        string
	Location    string
	Description string
}

// Scheduled reports whether the event occupies a concrete calendar position.
func (e Event) Scheduled() bool {
	return e.Date != "" && e.Time != ""
}

var (
	ErrEventNotFound = errors.New("event not found")
	ErrEventConflict = errors.New("another event occupies this date and time")
)

// ConflictError carries the event that already occupies the requested
// position, so callers can show it. errors.Is matches ErrEventConflict.
type ConflictError struct {
	Conflicting Event
}

func (e *ConflictError) Error() string {
	return ErrEventConflict.Error() + ": " + e.Conflicting.Title
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrEventConflict
}
