package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parokya/parokya/internal/event_bus"
	"github.com/parokya/parokya/internal/utils"
	"github.com/parokya/parokya/pkg/sacrament"
	"github.com/parokya/parokya/pkg/slot"
	"github.com/parokya/parokya/pkg/user"
	log "github.com/sirupsen/logrus"
)

// BookingRequest carries everything a requester submits to book a slot.
// The requester identity comes from the context, not the request body.
type BookingRequest struct {
	SacramentType string
	Date          string
	TimeSlotID    int
}

// Coordinator turns booking requests into confirmed appointments. The slot
// store's TryReserve resolves the race between requesters picking the same
// slot; everything else here is validation and bookkeeping around it.
type Coordinator struct {
	repo       Repo
	slots      slot.Store
	sacraments sacrament.Catalog
	bus        *event_bus.EventBus
	clock      utils.Clock
}

func NewCoordinator(repo Repo, slots slot.Store, sacraments sacrament.Catalog, bus *event_bus.EventBus, clock utils.Clock) *Coordinator {
	return &Coordinator{
		repo:       repo,
		slots:      slots,
		sacraments: sacraments,
		bus:        bus,
		clock:      clock,
	}
}

// Book validates the request, reserves the slot, and records the confirmed
// appointment. The operation is all-or-nothing: when the appointment record
// cannot be written after the slot was reserved, the reservation is undone.
func (c *Coordinator) Book(ctx context.Context, req BookingRequest) (Appointment, error) {
	requesterId, err := user.CurrentId(ctx)
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to get current user: %w", err)
	}

	requestedDate, err := time.Parse(utils.DateLayout, req.Date)
	if err != nil {
		return Appointment{}, fmt.Errorf("%w: date must be formatted as %s", ErrInvalidDate, utils.DateLayout)
	}
	if requestedDate.Before(utils.Today(c.clock)) {
		return Appointment{}, ErrPastDate
	}

	known, err := c.sacraments.Exists(ctx, req.SacramentType)
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to check sacrament catalog: %w", err)
	}
	if !known {
		return Appointment{}, fmt.Errorf("%w: %q", ErrUnknownSacrament, req.SacramentType)
	}

	requestedSlot, err := c.slots.GetSlot(ctx, req.TimeSlotID)
	if err != nil {
		return Appointment{}, err
	}
	if requestedSlot.Date != req.Date {
		return Appointment{}, ErrDateMismatch
	}

	// The only synchronization point. Exactly one of any number of racing
	// requesters gets past this line for a given slot.
	if err := c.slots.TryReserve(ctx, req.TimeSlotID); err != nil {
		return Appointment{}, err
	}

	appt := Appointment{
		UID:           uuid.NewString(),
		RequesterId:   requesterId,
		SacramentType: req.SacramentType,
		Date:          req.Date,
		TimeSlotID:    req.TimeSlotID,
		Status:        StatusConfirmed,
		CreatedAt:     c.clock.Now(),
	}
	if err := c.repo.Store(ctx, appt); err != nil {
		// Compensating release: the slot must not stay BOOKED without a
		// confirmed appointment behind it.
		if releaseErr := c.slots.Release(ctx, req.TimeSlotID); releaseErr != nil {
			log.Errorf("failed to release slot %d after storage fault: %v", req.TimeSlotID, releaseErr)
		}
		return Appointment{}, fmt.Errorf("failed to store appointment: %w", err)
	}

	c.publish(ctx, event_bus.EventAppointmentConfirmed, event_bus.AppointmentConfirmed{
		AppointmentUID: appt.UID,
		RequesterId:    appt.RequesterId,
		SacramentType:  appt.SacramentType,
		Date:           appt.Date,
		SlotLabel:      requestedSlot.Label,
	})

	return appt, nil
}

// Cancel transitions a confirmed appointment to CANCELLED and frees its slot.
// Only the owning requester may cancel; anyone else sees not-found.
func (c *Coordinator) Cancel(ctx context.Context, appointmentUID string) error {
	requesterId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	appt, err := c.repo.GetByUID(ctx, appointmentUID)
	if err != nil {
		return err
	}
	if appt.RequesterId != requesterId {
		log.Warnf("user %d attempted to cancel appointment %s owned by user %d", requesterId, appointmentUID, appt.RequesterId)
		return ErrAppointmentNotFound
	}

	cancelled, err := c.repo.UpdateStatus(ctx, appointmentUID, StatusConfirmed, StatusCancelled)
	if err != nil {
		return err
	}
	if !cancelled {
		return fmt.Errorf("%w: appointment is %s", ErrInvalidTransition, appt.Status)
	}

	// A slot whose date has already passed stays BOOKED for the record;
	// releasing it would offer a slot in the past.
	apptDate, err := time.Parse(utils.DateLayout, appt.Date)
	if err == nil && !apptDate.Before(utils.Today(c.clock)) {
		if err := c.slots.Release(ctx, appt.TimeSlotID); err != nil {
			log.Errorf("failed to release slot %d for cancelled appointment %s: %v", appt.TimeSlotID, appointmentUID, err)
		}
	}

	slotLabel := ""
	if s, err := c.slots.GetSlot(ctx, appt.TimeSlotID); err == nil {
		slotLabel = s.Label
	}
	c.publish(ctx, event_bus.EventAppointmentCancelled, event_bus.AppointmentCancelled{
		AppointmentUID: appt.UID,
		RequesterId:    appt.RequesterId,
		Date:           appt.Date,
		SlotLabel:      slotLabel,
	})

	return nil
}

// ListForRequester returns the current requester's appointments.
func (c *Coordinator) ListForRequester(ctx context.Context) ([]Appointment, error) {
	requesterId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return c.repo.ListByRequester(ctx, requesterId)
}

// ListConfirmedForDate is the staff/job view of a day's confirmed bookings.
func (c *Coordinator) ListConfirmedForDate(ctx context.Context, date string) ([]Appointment, error) {
	return c.repo.ListByDateAndStatus(ctx, date, StatusConfirmed)
}

func (c *Coordinator) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}
