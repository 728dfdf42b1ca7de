package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, appt Appointment) error
	GetByUID(ctx context.Context, uid string) (Appointment, error)
	ListByRequester(ctx context.Context, requesterId int) ([]Appointment, error)
	ListByDateAndStatus(ctx context.Context, date string, status Status) ([]Appointment, error)
	// UpdateStatus performs a guarded transition: the row is only updated when
	// its current status equals from. Returns false when nothing matched.
	UpdateStatus(ctx context.Context, uid string, from, to Status) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, appt Appointment) error {
	query := `INSERT INTO appointment (
                        uid,
                        requester_id,
                        sacrament_type,
                        appointment_date,
                        time_slot_id,
                        status,
                        created_at
                    ) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		appt.UID,
		appt.RequesterId,
		appt.SacramentType,
		appt.Date,
		appt.TimeSlotID,
		string(appt.Status),
		appt.CreatedAt.UnixMilli(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetByUID(ctx context.Context, uid string) (Appointment, error) {
	query := `SELECT uid, requester_id, sacrament_type, appointment_date, time_slot_id, status, created_at
              FROM appointment WHERE uid = $1`

	appt, err := scanAppointment(r.db.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return Appointment{}, ErrAppointmentNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query appointment: %w", err)
		log.Error(err)
		return Appointment{}, err
	}
	return appt, nil
}

func (r *RepoImpl) ListByRequester(ctx context.Context, requesterId int) ([]Appointment, error) {
	query := `SELECT uid, requester_id, sacrament_type, appointment_date, time_slot_id, status, created_at
              FROM appointment
              WHERE requester_id = $1
              ORDER BY appointment_date, created_at`

	return r.queryAppointments(ctx, query, requesterId)
}

func (r *RepoImpl) ListByDateAndStatus(ctx context.Context, date string, status Status) ([]Appointment, error) {
	query := `SELECT uid, requester_id, sacrament_type, appointment_date, time_slot_id, status, created_at
              FROM appointment
              WHERE appointment_date = $1 AND status = $2
              ORDER BY created_at`

	return r.queryAppointments(ctx, query, date, string(status))
}

func (r *RepoImpl) UpdateStatus(ctx context.Context, uid string, from, to Status) (bool, error) {
	query := `UPDATE appointment SET status = $1 WHERE uid = $2 AND status = $3`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return false, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, string(to), uid, string(from))
	if err != nil {
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) queryAppointments(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query appointments: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	appointments := make([]Appointment, 0, 10)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			err := fmt.Errorf("could not scan appointment: %w", err)
			log.Error(err)
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (Appointment, error) {
	var appt Appointment
	var status string
	var createdAtMillis int64
	err := row.Scan(
		&appt.UID,
		&appt.RequesterId,
		&appt.SacramentType,
		&appt.Date,
		&appt.TimeSlotID,
		&status,
		&createdAtMillis,
	)
	if err != nil {
		return Appointment{}, err
	}
	appt.Status = Status(status)
	appt.CreatedAt = time.UnixMilli(createdAtMillis)
	return appt, nil
}
