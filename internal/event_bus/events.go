package event_bus

const (
	EventAppointmentConfirmed EventType = "appointment.confirmed"
	EventAppointmentCancelled EventType = "appointment.cancelled"
	EventAppointmentReminder  EventType = "appointment.reminder"
)

type AppointmentConfirmed struct {
	AppointmentUID string
	RequesterId    int
	SacramentType  string
	Date           string
	SlotLabel      string
}

type AppointmentCancelled struct {
	AppointmentUID string
	RequesterId    int
	Date           string
	SlotLabel      string
}

// AppointmentReminder is published by the daily reminder job for each
// confirmed appointment on the following day.
type AppointmentReminder struct {
	AppointmentUID string
	RequesterId    int
	SacramentType  string
	Date           string
	SlotLabel      string
}
