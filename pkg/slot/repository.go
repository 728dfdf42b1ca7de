package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Store is the single source of truth for slot occupancy. TryReserve and
// Release are the only mutating entry points for occupancy state.
type Store interface {
	ListSlots(ctx context.Context, date string) ([]TimeSlot, error)
	GetSlot(ctx context.Context, id int) (TimeSlot, error)
	// TryReserve flips the slot from AVAILABLE to BOOKED atomically. Of any
	// number of concurrent callers exactly one succeeds; the rest get
	// ErrSlotUnavailable.
	TryReserve(ctx context.Context, id int) error
	// Release reverts a BOOKED slot to AVAILABLE. Releasing an already
	// available slot is a no-op.
	Release(ctx context.Context, id int) error
	CreateSlots(ctx context.Context, date string, labels []string) ([]TimeSlot, error)
}

type StoreImpl struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *StoreImpl {
	return &StoreImpl{db: db}
}

func (s *StoreImpl) ListSlots(ctx context.Context, date string) ([]TimeSlot, error) {
	query := `SELECT id, slot_date, label, status FROM time_slot WHERE slot_date = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, date)
	if err != nil {
		err := fmt.Errorf("could not query time slots: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	slots := make([]TimeSlot, 0, 10)
	for rows.Next() {
		var slot TimeSlot
		if err := rows.Scan(&slot.ID, &slot.Date, &slot.Label, &slot.Status); err != nil {
			err := fmt.Errorf("could not scan time slot: %w", err)
			log.Error(err)
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return slots, nil
}

func (s *StoreImpl) GetSlot(ctx context.Context, id int) (TimeSlot, error) {
	query := `SELECT id, slot_date, label, status FROM time_slot WHERE id = $1`

	var slot TimeSlot
	err := s.db.QueryRowContext(ctx, query, id).Scan(&slot.ID, &slot.Date, &slot.Label, &slot.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return TimeSlot{}, ErrSlotNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query time slot: %w", err)
		log.Error(err)
		return TimeSlot{}, err
	}
	return slot, nil
}

func (s *StoreImpl) TryReserve(ctx context.Context, id int) error {
	// Compare-and-set on status. The WHERE clause makes the flip atomic at
	// the storage layer: of two racing callers only one UPDATE matches a row.
	query := `UPDATE time_slot SET status = $1 WHERE id = $2 AND status = $3`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, StatusBooked, id, StatusAvailable)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 1 {
		return nil
	}

	// Nothing matched: the slot is either taken or missing.
	if _, err := s.GetSlot(ctx, id); err != nil {
		return err
	}
	return ErrSlotUnavailable
}

func (s *StoreImpl) Release(ctx context.Context, id int) error {
	query := `UPDATE time_slot SET status = $1 WHERE id = $2`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, StatusAvailable, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return err
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// CreateSlots inserts the whole batch in one transaction: either every label
// becomes a slot or none does.
func (s *StoreImpl) CreateSlots(ctx context.Context, date string, labels []string) ([]TimeSlot, error) {
	query := `INSERT INTO time_slot (slot_date, label, status) VALUES ($1, $2, $3) RETURNING id`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return nil, err
	}
	defer tx.Rollback()

	created := make([]TimeSlot, 0, len(labels))
	for _, label := range labels {
		var id int
		if err := tx.QueryRowContext(ctx, query, date, label, StatusAvailable).Scan(&id); err != nil {
			err := fmt.Errorf("could not insert time slot: %w", err)
			log.Error(err)
			return nil, err
		}
		created = append(created, TimeSlot{
			ID:     id,
			Date:   date,
			Label:  label,
			Status: StatusAvailable,
		})
	}

	if err := tx.Commit(); err != nil {
		err := fmt.Errorf("could not commit transaction: %w", err)
		log.Error(err)
		return nil, err
	}
	return created, nil
}
