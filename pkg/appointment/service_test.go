package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parokya/parokya/internal/event_bus"
	"github.com/parokya/parokya/internal/utils"
	"github.com/parokya/parokya/pkg/sacrament"
	"github.com/parokya/parokya/pkg/slot"
	"github.com/parokya/parokya/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coordinatorFixture struct {
	repo        *StubRepo
	slots       *slot.StubStore
	coordinator *Coordinator
	clock       *utils.MockClock
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	repo := NewStubRepo()
	slots := slot.NewStubStore()
	clock := &utils.MockClock{FixedNow: time.Date(2025, 4, 1, 10, 0, 0, 0, time.Local)}
	coordinator := NewCoordinator(repo, slots, sacrament.NewStubCatalog("BAPTISM", "WEDDING"), event_bus.NewEventBus(), clock)
	return &coordinatorFixture{repo: repo, slots: slots, coordinator: coordinator, clock: clock}
}

func requesterContext(id int) context.Context {
	return user.WithUser(context.Background(), user.User{Id: id, Uid: "stub-uid", DisplayName: "Requester"})
}

func TestBookConfirmsAppointment(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)

	appt, err := f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, appt.UID)
	assert.Equal(t, 1, appt.RequesterId)
	assert.Equal(t, StatusConfirmed, appt.Status)
	assert.Equal(t, "2025-04-05", appt.Date)

	stored, err := f.repo.GetByUID(ctx, appt.UID)
	require.NoError(t, err)
	assert.Equal(t, appt, stored)

	booked, err := f.slots.GetSlot(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, slot.StatusBooked, booked.Status)
}

func TestBookWithoutUserFails(t *testing.T) {
	f := newCoordinatorFixture(t)
	created, err := f.slots.CreateSlots(context.Background(), "2025-04-05", []string{"10:00"})
	require.NoError(t, err)

	_, err = f.coordinator.Book(context.Background(), BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})

	assert.ErrorIs(t, err, user.ErrNoUser)
}

func TestBookRejectsMalformedDate(t *testing.T) {
	f := newCoordinatorFixture(t)

	_, err := f.coordinator.Book(requesterContext(1), BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "05/04/2025",
		TimeSlotID:    1,
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBookRejectsPastDate(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-03-20", []string{"10:00"})
	require.NoError(t, err)

	_, err = f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-03-20",
		TimeSlotID:    created[0].ID,
	})

	assert.ErrorIs(t, err, ErrPastDate)
}

func TestBookAllowsToday(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-01", []string{"16:00"})
	require.NoError(t, err)

	_, err = f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-01",
		TimeSlotID:    created[0].ID,
	})

	assert.NoError(t, err)
}

func TestBookRejectsUnknownSacrament(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)

	_, err = f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "ORDINATION",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})

	assert.ErrorIs(t, err, ErrUnknownSacrament)
}

func TestBookRejectsDateMismatch(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)

	_, err = f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-06",
		TimeSlotID:    created[0].ID,
	})

	assert.ErrorIs(t, err, ErrDateMismatch)

	// The mismatch is caught before any reservation happens.
	unchanged, err := f.slots.GetSlot(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, slot.StatusAvailable, unchanged.Status)
}

func TestBookUnknownSlot(t *testing.T) {
	f := newCoordinatorFixture(t)

	_, err := f.coordinator.Book(requesterContext(1), BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    99,
	})

	assert.ErrorIs(t, err, slot.ErrSlotNotFound)
}

func TestBookLostRaceLeavesNoRecord(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)
	request := BookingRequest{SacramentType: "BAPTISM", Date: "2025-04-05", TimeSlotID: created[0].ID}

	winner, err := f.coordinator.Book(ctx, request)
	require.NoError(t, err)

	_, err = f.coordinator.Book(requesterContext(2), request)
	assert.ErrorIs(t, err, slot.ErrSlotUnavailable)

	loserAppointments, err := f.coordinator.ListForRequester(requesterContext(2))
	require.NoError(t, err)
	assert.Empty(t, loserAppointments)

	kept, err := f.repo.GetByUID(ctx, winner.UID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, kept.Status)
}

func TestBookReleasesSlotWhenStoreFails(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)
	f.repo.FailStore = errors.New("storage fault")

	_, err = f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})
	require.Error(t, err)

	released, err := f.slots.GetSlot(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, slot.StatusAvailable, released.Status)

	// The undone reservation must be winnable again.
	_, err = f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})
	assert.NoError(t, err)
}

func TestCancelReleasesSlot(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)
	appt, err := f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})
	require.NoError(t, err)

	err = f.coordinator.Cancel(ctx, appt.UID)
	require.NoError(t, err)

	cancelled, err := f.repo.GetByUID(ctx, appt.UID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	freed, err := f.slots.GetSlot(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, slot.StatusAvailable, freed.Status)
}

func TestCancelTwiceFails(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)
	appt, err := f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.coordinator.Cancel(ctx, appt.UID))
	err = f.coordinator.Cancel(ctx, appt.UID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelByNonOwnerLooksLikeNotFound(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)
	appt, err := f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})
	require.NoError(t, err)

	err = f.coordinator.Cancel(requesterContext(2), appt.UID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	untouched, err := f.repo.GetByUID(ctx, appt.UID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, untouched.Status)
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newCoordinatorFixture(t)

	err := f.coordinator.Cancel(requesterContext(1), "no-such-uid")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancelAfterDateKeepsSlotBooked(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00"})
	require.NoError(t, err)
	appt, err := f.coordinator.Book(ctx, BookingRequest{
		SacramentType: "BAPTISM",
		Date:          "2025-04-05",
		TimeSlotID:    created[0].ID,
	})
	require.NoError(t, err)

	f.clock.SetNow(time.Date(2025, 4, 10, 9, 0, 0, 0, time.Local))
	require.NoError(t, f.coordinator.Cancel(ctx, appt.UID))

	cancelled, err := f.repo.GetByUID(ctx, appt.UID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// A past-date slot never returns to AVAILABLE.
	kept, err := f.slots.GetSlot(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, slot.StatusBooked, kept.Status)
}

func TestListForRequesterFiltersByOwner(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctxA := requesterContext(1)
	ctxB := requesterContext(2)
	created, err := f.slots.CreateSlots(ctxA, "2025-04-05", []string{"10:00", "11:00"})
	require.NoError(t, err)

	apptA, err := f.coordinator.Book(ctxA, BookingRequest{SacramentType: "BAPTISM", Date: "2025-04-05", TimeSlotID: created[0].ID})
	require.NoError(t, err)
	_, err = f.coordinator.Book(ctxB, BookingRequest{SacramentType: "WEDDING", Date: "2025-04-05", TimeSlotID: created[1].ID})
	require.NoError(t, err)

	own, err := f.coordinator.ListForRequester(ctxA)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, apptA.UID, own[0].UID)
}

func TestListConfirmedForDateSkipsCancelled(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := requesterContext(1)
	created, err := f.slots.CreateSlots(ctx, "2025-04-05", []string{"10:00", "11:00"})
	require.NoError(t, err)

	kept, err := f.coordinator.Book(ctx, BookingRequest{SacramentType: "BAPTISM", Date: "2025-04-05", TimeSlotID: created[0].ID})
	require.NoError(t, err)
	dropped, err := f.coordinator.Book(ctx, BookingRequest{SacramentType: "WEDDING", Date: "2025-04-05", TimeSlotID: created[1].ID})
	require.NoError(t, err)
	require.NoError(t, f.coordinator.Cancel(ctx, dropped.UID))

	confirmed, err := f.coordinator.ListConfirmedForDate(ctx, "2025-04-05")
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, kept.UID, confirmed[0].UID)
}
