package event

import (
	"context"
	"errors"
	"fmt"
)

// ConflictGuard answers whether a calendar position is free. Two events
// conflict when their date and time match exactly; anything else, including
// adjacent times on the same day, coexists.
type ConflictGuard struct {
	repo Repo
	// AllowUnscheduledDrafts skips the check when date or time is missing,
	// letting drafts be saved before they are placed on the calendar.
	AllowUnscheduledDrafts bool
}

func NewConflictGuard(repo Repo) *ConflictGuard {
	return &ConflictGuard{repo: repo, AllowUnscheduledDrafts: true}
}

// CheckConflict returns the event already occupying the given date and time,
// or nil when the position is free. excludeUID exempts the event being
// updated from conflicting with itself.
func (g *ConflictGuard) CheckConflict(ctx context.Context, date string, time string, excludeUID string) (*Event, error) {
	if date == "" || time == "" {
		if g.AllowUnscheduledDrafts {
			return nil, nil
		}
		return nil, fmt.Errorf("event date and time are required")
	}

	occupying, err := g.repo.FindByDateTime(ctx, date, time)
	if errors.Is(err, ErrEventNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if occupying.UID == excludeUID {
		return nil, nil
	}
	return &occupying, nil
}
