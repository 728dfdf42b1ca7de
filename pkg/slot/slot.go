package slot

import "errors"

// Status is the occupancy state of a time slot.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBooked    Status = "BOOKED"
)

// TimeSlot is a bookable (date, time-label) unit with binary occupancy.
// Date carries no time component and is formatted as utils.DateLayout.
type TimeSlot struct {
	ID     int
	Date   string
	Label  string
	Status Status
}

var (
	ErrSlotNotFound = errors.New("time slot not found")
	// ErrSlotUnavailable means the reservation race was lost. The caller must
	// re-fetch availability and pick a different slot.
	ErrSlotUnavailable = errors.New("time slot is already booked")
)
