package notification

import (
	"fmt"
	"sync"
	"time"

	"github.com/parokya/parokya/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

const historyLimit = 100

// Notification is one message addressed to a requester. Delivery here means
// logging it and keeping it in the recent history; an SMTP or push channel
// would hang off the same subscriptions.
type Notification struct {
	RequesterId int
	Subject     string
	Message     string
	SentAt      time.Time
}

// Notifier listens on the bus for appointment lifecycle events and produces
// notifications for the affected requester.
type Notifier struct {
	mu     sync.Mutex
	recent []Notification
	unsubs []func()
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Start subscribes the notifier to the bus. Stop undoes it.
func (n *Notifier) Start(bus *event_bus.EventBus) {
	n.unsubs = append(n.unsubs,
		event_bus.SubscribeTyped(bus, event_bus.EventAppointmentConfirmed, n.onConfirmed),
		event_bus.SubscribeTyped(bus, event_bus.EventAppointmentCancelled, n.onCancelled),
		event_bus.SubscribeTyped(bus, event_bus.EventAppointmentReminder, n.onReminder),
	)
}

func (n *Notifier) Stop() {
	for _, unsub := range n.unsubs {
		unsub()
	}
	n.unsubs = nil
}

// Recent returns the latest notifications, newest last.
func (n *Notifier) Recent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.recent))
	copy(out, n.recent)
	return out
}

func (n *Notifier) onConfirmed(e event_bus.EventT[event_bus.AppointmentConfirmed]) error {
	n.deliver(Notification{
		RequesterId: e.Data.RequesterId,
		Subject:     "Appointment confirmed",
		Message: fmt.Sprintf("Your %s appointment on %s at %s is confirmed.",
			e.Data.SacramentType, e.Data.Date, e.Data.SlotLabel),
		SentAt: e.Timestamp,
	})
	return nil
}

func (n *Notifier) onCancelled(e event_bus.EventT[event_bus.AppointmentCancelled]) error {
	n.deliver(Notification{
		RequesterId: e.Data.RequesterId,
		Subject:     "Appointment cancelled",
		Message: fmt.Sprintf("Your appointment on %s at %s has been cancelled.",
			e.Data.Date, e.Data.SlotLabel),
		SentAt: e.Timestamp,
	})
	return nil
}

func (n *Notifier) onReminder(e event_bus.EventT[event_bus.AppointmentReminder]) error {
	n.deliver(Notification{
		RequesterId: e.Data.RequesterId,
		Subject:     "Appointment tomorrow",
		Message: fmt.Sprintf("Reminder: your %s appointment is tomorrow, %s at %s.",
			e.Data.SacramentType, e.Data.Date, e.Data.SlotLabel),
		SentAt: e.Timestamp,
	})
	return nil
}

func (n *Notifier) deliver(notification Notification) {
	log.Infof("notify user %d: %s - %s", notification.RequesterId, notification.Subject, notification.Message)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.recent = append(n.recent, notification)
	if len(n.recent) > historyLimit {
		n.recent = n.recent[len(n.recent)-historyLimit:]
	}
}
