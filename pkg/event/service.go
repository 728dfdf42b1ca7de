package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parokya/parokya/internal/utils"
)

var ErrInvalidEventInput = errors.New("invalid event input")

const timeLayout = "15:04"

// Service manages the parish calendar. Every create and update passes the
// conflict guard before touching storage; the unique constraint on
// (event_date, event_time) backstops anything the guard missed.
type Service struct {
	repo  Repo
	guard *ConflictGuard
}

func NewService(repo Repo, guard *ConflictGuard) *Service {
	return &Service{repo: repo, guard: guard}
}

func (s *Service) CreateEvent(ctx context.Context, e Event) (Event, error) {
	if err := validateEvent(e); err != nil {
		return Event{}, err
	}
	e.UID = uuid.NewString()

	occupying, err := s.guard.CheckConflict(ctx, e.Date, e.Time, "")
	if err != nil {
		return Event{}, err
	}
	if occupying != nil {
		return Event{}, &ConflictError{Conflicting: *occupying}
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, e Event) (Event, error) {
	if e.UID == "" {
		return Event{}, fmt.Errorf("%w: uid is required", ErrInvalidEventInput)
	}
	if err := validateEvent(e); err != nil {
		return Event{}, err
	}

	occupying, err := s.guard.CheckConflict(ctx, e.Date, e.Time, e.UID)
	if err != nil {
		return Event{}, err
	}
	if occupying != nil {
		return Event{}, &ConflictError{Conflicting: *occupying}
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, uid string) error {
	return s.repo.Delete(ctx, uid)
}

func (s *Service) GetEvent(ctx context.Context, uid string) (Event, error) {
	return s.repo.GetByUID(ctx, uid)
}

func (s *Service) GetAllEvents(ctx context.Context) ([]Event, error) {
	return s.repo.GetAll(ctx)
}

// GetEventsBetween returns scheduled events whose date falls within the
// inclusive [from, to] range. Drafts are left out.
func (s *Service) GetEventsBetween(ctx context.Context, from string, to string) ([]Event, error) {
	for _, date := range []string{from, to} {
		if _, err := time.Parse(utils.DateLayout, date); err != nil {
			return nil, fmt.Errorf("%w: date must be formatted as %s", ErrInvalidEventInput, utils.DateLayout)
		}
	}
	if to < from {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidEventInput)
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	// Dates are ISO formatted, so string comparison orders them correctly.
	events := make([]Event, 0, len(all))
	for _, e := range all {
		if e.Scheduled() && e.Date >= from && e.Date <= to {
			events = append(events, e)
		}
	}
	return events, nil
}

func validateEvent(e Event) error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidEventInput)
	}
	// Date and time are independently optional. An event missing either is
	// treated as a draft: it is written as-is and skips the conflict check.
	if e.Date != "" {
		if _, err := time.Parse(utils.DateLayout, e.Date); err != nil {
			return fmt.Errorf("%w: date must be formatted as %s", ErrInvalidEventInput, utils.DateLayout)
		}
	}
	if e.Time != "" {
		if _, err := time.Parse(timeLayout, e.Time); err != nil {
			return fmt.Errorf("%w: time must be formatted as %s", ErrInvalidEventInput, timeLayout)
		}
	}
	return nil
}
