package appointment

import (
	"errors"
	"time"
)

// Status is the lifecycle state of an appointment. PENDING exists only while
// a booking request is in flight and is never persisted; a failed attempt
// leaves no record behind.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Appointment is a confirmed sacrament booking owned by its requester.
// Date always equals the referenced slot's date.
type Appointment struct {
	UID           string
	RequesterId   int
	SacramentType string
	Date          string
	TimeSlotID    int
	Status        Status
	CreatedAt     time.Time
}

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPastDate            = errors.New("appointment date must not be in the past")
	ErrDateMismatch        = errors.New("appointment date does not match the slot's date")
	ErrUnknownSacrament    = errors.New("unknown sacrament type")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrInvalidDate         = errors.New("invalid appointment date")
)
