package jobs

import (
	"context"
	"fmt"

	"github.com/parokya/parokya/internal/event_bus"
	"github.com/parokya/parokya/internal/utils"
	"github.com/parokya/parokya/pkg/appointment"
	"github.com/parokya/parokya/pkg/slot"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ConfirmedLister is the slice of the appointment coordinator the job needs.
type ConfirmedLister interface {
	ListConfirmedForDate(ctx context.Context, date string) ([]appointment.Appointment, error)
}

// ReminderJob publishes a reminder event for every confirmed appointment
// scheduled for the following day.
type ReminderJob struct {
	appointments ConfirmedLister
	slots        slot.Store
	bus          *event_bus.EventBus
	clock        utils.Clock
}

func NewReminderJob(appointments ConfirmedLister, slots slot.Store, bus *event_bus.EventBus, clock utils.Clock) *ReminderJob {
	return &ReminderJob{
		appointments: appointments,
		slots:        slots,
		bus:          bus,
		clock:        clock,
	}
}

func (j *ReminderJob) Run(ctx context.Context) error {
	tomorrow := utils.Today(j.clock).AddDate(0, 0, 1).Format(utils.DateLayout)

	confirmed, err := j.appointments.ListConfirmedForDate(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("failed to list appointments for %s: %w", tomorrow, err)
	}
	log.Infof("reminder job: %d confirmed appointment(s) on %s", len(confirmed), tomorrow)

	for _, appt := range confirmed {
		slotLabel := ""
		if s, err := j.slots.GetSlot(ctx, appt.TimeSlotID); err == nil {
			slotLabel = s.Label
		}
		err := j.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventAppointmentReminder, event_bus.AppointmentReminder{
			AppointmentUID: appt.UID,
			RequesterId:    appt.RequesterId,
			SacramentType:  appt.SacramentType,
			Date:           appt.Date,
			SlotLabel:      slotLabel,
		}))
		if err != nil {
			log.Errorf("reminder job: failed to publish reminder for %s: %v", appt.UID, err)
		}
	}
	return nil
}

// Schedule registers the job on the cron runner at the given hour each day.
func (j *ReminderJob) Schedule(c *cron.Cron, hour int) error {
	spec := fmt.Sprintf("0 %d * * *", hour)
	_, err := c.AddFunc(spec, func() {
		if err := j.Run(context.Background()); err != nil {
			log.Errorf("reminder job failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	return nil
}
