package appointment

import (
	"context"
	"errors"
	"sort"
)

// StubRepo is an in-memory Repo for coordinator tests. FailStore forces the
// next Store call to fail so the compensating release path can be exercised.
type StubRepo struct {
	data      map[string]Appointment
	FailStore error
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Appointment{}}
}

func (s *StubRepo) Store(ctx context.Context, appt Appointment) error {
	if s.FailStore != nil {
		err := s.FailStore
		s.FailStore = nil
		return err
	}
	if _, ok := s.data[appt.UID]; ok {
		return errors.New("duplicate appointment uid")
	}
	s.data[appt.UID] = appt
	return nil
}

func (s *StubRepo) GetByUID(ctx context.Context, uid string) (Appointment, error) {
	appt, ok := s.data[uid]
	if !ok {
		return Appointment{}, ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *StubRepo) ListByRequester(ctx context.Context, requesterId int) ([]Appointment, error) {
	return s.list(func(a Appointment) bool { return a.RequesterId == requesterId }), nil
}

func (s *StubRepo) ListByDateAndStatus(ctx context.Context, date string, status Status) ([]Appointment, error) {
	return s.list(func(a Appointment) bool { return a.Date == date && a.Status == status }), nil
}

func (s *StubRepo) UpdateStatus(ctx context.Context, uid string, from, to Status) (bool, error) {
	appt, ok := s.data[uid]
	if !ok || appt.Status != from {
		return false, nil
	}
	appt.Status = to
	s.data[uid] = appt
	return true, nil
}

func (s *StubRepo) list(match func(Appointment) bool) []Appointment {
	appointments := make([]Appointment, 0, len(s.data))
	for _, appt := range s.data {
		if match(appt) {
			appointments = append(appointments, appt)
		}
	}
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].CreatedAt.Before(appointments[j].CreatedAt)
	})
	return appointments
}
