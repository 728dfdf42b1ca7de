package slot

import (
	"context"
	"sort"
	"sync"
)

// StubStore is an in-memory Store for service tests. The mutex keeps
// TryReserve/Release atomic so race-oriented tests behave like the SQL store.
type StubStore struct {
	mu     sync.Mutex
	nextId int
	data   map[int]TimeSlot
}

func NewStubStore() *StubStore {
	return &StubStore{data: map[int]TimeSlot{}}
}

func (s *StubStore) ListSlots(ctx context.Context, date string) ([]TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := make([]TimeSlot, 0, len(s.data))
	for _, slot := range s.data {
		if slot.Date == date {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].ID < slots[j].ID })
	return slots, nil
}

func (s *StubStore) GetSlot(ctx context.Context, id int) (TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.data[id]
	if !ok {
		return TimeSlot{}, ErrSlotNotFound
	}
	return slot, nil
}

func (s *StubStore) TryReserve(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.data[id]
	if !ok {
		return ErrSlotNotFound
	}
	if slot.Status != StatusAvailable {
		return ErrSlotUnavailable
	}
	slot.Status = StatusBooked
	s.data[id] = slot
	return nil
}

func (s *StubStore) Release(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.data[id]
	if !ok {
		return ErrSlotNotFound
	}
	slot.Status = StatusAvailable
	s.data[id] = slot
	return nil
}

func (s *StubStore) CreateSlots(ctx context.Context, date string, labels []string) ([]TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := make([]TimeSlot, 0, len(labels))
	for _, label := range labels {
		s.nextId++
		slot := TimeSlot{ID: s.nextId, Date: date, Label: label, Status: StatusAvailable}
		s.data[slot.ID] = slot
		created = append(created, slot)
	}
	return created, nil
}
