package event

import (
	"context"
	"sort"
)

// StubRepo is an in-memory Repo for calendar tests. It enforces the same
// uniqueness on scheduled (date, time) pairs as the real table.
type StubRepo struct {
	data map[string]Event
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Event{}}
}

func (s *StubRepo) Create(ctx context.Context, e Event) error {
	if occupying, taken := s.occupant(e); taken {
		return &ConflictError{Conflicting: occupying}
	}
	s.data[e.UID] = e
	return nil
}

func (s *StubRepo) Update(ctx context.Context, e Event) error {
	if _, ok := s.data[e.UID]; !ok {
		return ErrEventNotFound
	}
	if occupying, taken := s.occupant(e); taken {
		return &ConflictError{Conflicting: occupying}
	}
	s.data[e.UID] = e
	return nil
}

func (s *StubRepo) Delete(ctx context.Context, uid string) error {
	if _, ok := s.data[uid]; !ok {
		return ErrEventNotFound
	}
	delete(s.data, uid)
	return nil
}

func (s *StubRepo) GetByUID(ctx context.Context, uid string) (Event, error) {
	e, ok := s.data[uid]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return e, nil
}

func (s *StubRepo) GetAll(ctx context.Context) ([]Event, error) {
	events := make([]Event, 0, len(s.data))
	for _, e := range s.data {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Time < events[j].Time
	})
	return events, nil
}

func (s *StubRepo) FindByDateTime(ctx context.Context, date string, time string) (Event, error) {
	for _, e := range s.data {
		if e.Scheduled() && e.Date == date && e.Time == time {
			return e, nil
		}
	}
	return Event{}, ErrEventNotFound
}

func (s *StubRepo) occupant(e Event) (Event, bool) {
	if !e.Scheduled() {
		return Event{}, false
	}
	occupying, err := s.FindByDateTime(context.Background(), e.Date, e.Time)
	if err != nil || occupying.UID == e.UID {
		return Event{}, false
	}
	return occupying, true
}
