package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parokya/parokya/internal/utils"
	"github.com/parokya/parokya/pkg/slot"
)

var ErrInvalidDateRange = errors.New("invalid date range")

// Calculator is a read-only projection over the slot store. Results reflect
// store state at call time; staleness between calls is expected.
type Calculator struct {
	slots slot.Store
}

func NewCalculator(slots slot.Store) *Calculator {
	return &Calculator{slots: slots}
}

func (c *Calculator) AvailableSlots(ctx context.Context, date string) ([]slot.TimeSlot, error) {
	slots, err := c.slots.ListSlots(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	available := make([]slot.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Status == slot.StatusAvailable {
			available = append(available, s)
		}
	}
	return available, nil
}

// IsFullyBooked reports whether every configured slot on the date is booked.
// A date with zero configured slots is not fully booked; callers distinguish
// "nothing configured" from "everything taken" via AvailableSlots.
func (c *Calculator) IsFullyBooked(ctx context.Context, date string) (bool, error) {
	summary, err := c.summarizeDate(ctx, date)
	if err != nil {
		return false, err
	}
	return summary.IsFullyBooked, nil
}

// Summarize computes a per-date availability summary for the inclusive range
// [from, to].
func (c *Calculator) Summarize(ctx context.Context, from, to string) (map[string]DateAvailabilitySummary, error) {
	fromDate, err := time.Parse(utils.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: 'from' must be formatted as %s", ErrInvalidDateRange, utils.DateLayout)
	}
	toDate, err := time.Parse(utils.DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: 'to' must be formatted as %s", ErrInvalidDateRange, utils.DateLayout)
	}
	if toDate.Before(fromDate) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidDateRange)
	}

	summaries := make(map[string]DateAvailabilitySummary)
	for d := fromDate; !d.After(toDate); d = d.AddDate(0, 0, 1) {
		date := d.Format(utils.DateLayout)
		summary, err := c.summarizeDate(ctx, date)
		if err != nil {
			return nil, err
		}
		summaries[date] = summary
	}
	return summaries, nil
}

func (c *Calculator) summarizeDate(ctx context.Context, date string) (DateAvailabilitySummary, error) {
	slots, err := c.slots.ListSlots(ctx, date)
	if err != nil {
		return DateAvailabilitySummary{}, fmt.Errorf("failed to list slots: %w", err)
	}
	booked := 0
	for _, s := range slots {
		if s.Status == slot.StatusBooked {
			booked++
		}
	}
	return DateAvailabilitySummary{
		Date:          date,
		TotalSlots:    len(slots),
		BookedSlots:   booked,
		IsFullyBooked: len(slots) > 0 && booked >= len(slots),
	}, nil
}
