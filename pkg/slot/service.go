package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parokya/parokya/internal/utils"
)

var ErrInvalidSlotInput = errors.New("invalid slot input")

// Service covers the staff-facing slot catalog: seeding slots for a date and
// listing what is configured. Occupancy changes go through Store directly.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListSlots(ctx context.Context, date string) ([]TimeSlot, error) {
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as %s", ErrInvalidSlotInput, utils.DateLayout)
	}
	return s.store.ListSlots(ctx, date)
}

func (s *Service) CreateSlots(ctx context.Context, date string, labels []string) ([]TimeSlot, error) {
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as %s", ErrInvalidSlotInput, utils.DateLayout)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: at least one slot label is required", ErrInvalidSlotInput)
	}
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("%w: slot labels must not be empty", ErrInvalidSlotInput)
		}
		if _, ok := seen[label]; ok {
			return nil, fmt.Errorf("%w: duplicate slot label %q", ErrInvalidSlotInput, label)
		}
		seen[label] = struct{}{}
	}
	return s.store.CreateSlots(ctx, date, labels)
}
