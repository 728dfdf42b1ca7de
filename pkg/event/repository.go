package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, uid string) error
	GetByUID(ctx context.Context, uid string) (Event, error)
	GetAll(ctx context.Context) ([]Event, error)
	// FindByDateTime returns the scheduled event at the exact date and time,
	// or ErrEventNotFound. Unscheduled drafts are never returned.
	FindByDateTime(ctx context.Context, date string, time string) (Event, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Create(ctx context.Context, e Event) error {
	query := `INSERT INTO parish_event (uid, title, event_date, event_time, location, description)
              VALUES ($1, $2, $3, $4, $5, $6)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, e.UID, e.Title, nullable(e.Date), nullable(e.Time), e.Location, e.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return r.conflictFor(ctx, e)
		}
		err := fmt.Errorf("could not execute query: %v", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) Update(ctx context.Context, e Event) error {
	query := `UPDATE parish_event SET title = $1, event_date = $2, event_time = $3, location = $4, description = $5
              WHERE uid = $6`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %v", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, e.Title, nullable(e.Date), nullable(e.Time), e.Location, e.Description, e.UID)
	if err != nil {
		if isUniqueViolation(err) {
			return r.conflictFor(ctx, e)
		}
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
		return ErrEventNotFound
	}
	return nil
}

func (r *RepoImpl) Delete(ctx context.Context, uid string) error {
	query := `DELETE FROM parish_event WHERE uid = $1`

	result, err := r.db.ExecContext(ctx, query, uid)
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
		return ErrEventNotFound
	}
	return nil
}

func (r *RepoImpl) GetByUID(ctx context.Context, uid string) (Event, error) {
	query := `SELECT uid, title, event_date, event_time, location, description
              FROM parish_event WHERE uid = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query event: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return e, nil
}

func (r *RepoImpl) GetAll(ctx context.Context) ([]Event, error) {
	query := `SELECT uid, title, event_date, event_time, location, description
              FROM parish_event ORDER BY event_date, event_time`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			err := fmt.Errorf("could not scan event: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return events, nil
}

func (r *RepoImpl) FindByDateTime(ctx context.Context, date string, time string) (Event, error) {
	query := `SELECT uid, title, event_date, event_time, location, description
              FROM parish_event WHERE event_date = $1 AND event_time = $2`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, date, time))
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrEventNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query event: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return e, nil
}

// conflictFor resolves a unique violation into a ConflictError carrying the
// occupying event. When the lookup fails the bare sentinel still signals the
// conflict.
func (r *RepoImpl) conflictFor(ctx context.Context, e Event) error {
	occupying, err := r.FindByDateTime(ctx, e.Date, e.Time)
	if err != nil {
		return ErrEventConflict
	}
	return &ConflictError{Conflicting: occupying}
}

// nullable maps an empty date or time to NULL so the unique constraint on
// (event_date, event_time) ignores unscheduled drafts.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	var date, eventTime sql.NullString
	if err := row.Scan(&e.UID, &e.Title, &date, &eventTime, &e.Location, &e.Description); err != nil {
		return Event{}, err
	}
	e.Date = date.String
	e.Time = eventTime.String
	return e, nil
}
