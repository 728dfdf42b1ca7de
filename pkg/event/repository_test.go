package event

import (
	"context"
	"testing"

	"github.com/parokya/parokya/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *RepoImpl {
	t.Helper()
	return NewRepo(test_utils.SetupTestDB(t))
}

func TestCreateAndGetEvent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	e := Event{
		UID:      "evt-1",
		Title:    "Easter Vigil",
		Date:     "2025-04-19",
		Time:     "20:00",
		Location: "Main Church",
	}

	require.NoError(t, repo.Create(ctx, e))

	fetched, err := repo.GetByUID(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, e, fetched)
}

func TestGetEventNotFound(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.GetByUID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUniqueConstraintBackstopsConflicts(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, Event{UID: "evt-1", Title: "Easter Vigil", Date: "2025-04-19", Time: "20:00"}))

	err := repo.Create(ctx, Event{UID: "evt-2", Title: "Choir Practice", Date: "2025-04-19", Time: "20:00"})

	require.ErrorIs(t, err, ErrEventConflict)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "evt-1", conflict.Conflicting.UID)
}

func TestDraftsBypassUniqueConstraint(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// Empty date and time land as NULL, which the constraint ignores.
	require.NoError(t, repo.Create(ctx, Event{UID: "evt-1", Title: "Parish Picnic"}))
	require.NoError(t, repo.Create(ctx, Event{UID: "evt-2", Title: "Bake Sale"}))

	fetched, err := repo.GetByUID(ctx, "evt-1")
	require.NoError(t, err)
	assert.Empty(t, fetched.Date)
	assert.Empty(t, fetched.Time)
}

func TestFindByDateTimeSkipsDrafts(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, Event{UID: "evt-1", Title: "Parish Picnic"}))
	require.NoError(t, repo.Create(ctx, Event{UID: "evt-2", Title: "Easter Vigil", Date: "2025-04-19", Time: "20:00"}))

	found, err := repo.FindByDateTime(ctx, "2025-04-19", "20:00")
	require.NoError(t, err)
	assert.Equal(t, "evt-2", found.UID)

	_, err = repo.FindByDateTime(ctx, "2025-04-19", "09:00")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdateMovesEvent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, Event{UID: "evt-1", Title: "Easter Vigil", Date: "2025-04-19", Time: "20:00"}))

	require.NoError(t, repo.Update(ctx, Event{UID: "evt-1", Title: "Easter Vigil", Date: "2025-04-19", Time: "21:00"}))

	fetched, err := repo.GetByUID(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "21:00", fetched.Time)
}

func TestUpdateIntoOccupiedPositionHitsConstraint(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, Event{UID: "evt-1", Title: "Easter Vigil", Date: "2025-04-19", Time: "20:00"}))
	require.NoError(t, repo.Create(ctx, Event{UID: "evt-2", Title: "Choir Practice", Date: "2025-04-19", Time: "18:00"}))

	err := repo.Update(ctx, Event{UID: "evt-2", Title: "Choir Practice", Date: "2025-04-19", Time: "20:00"})

	assert.ErrorIs(t, err, ErrEventConflict)
}

func TestUpdateUnknownEvent(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.Update(context.Background(), Event{UID: "missing", Title: "Ghost"})

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteEvent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, Event{UID: "evt-1", Title: "Easter Vigil", Date: "2025-04-19", Time: "20:00"}))
	require.NoError(t, repo.Delete(ctx, "evt-1"))

	_, err := repo.GetByUID(ctx, "evt-1")
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "evt-1"), ErrEventNotFound)
}

func TestGetAllOrdersByDateThenTime(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, Event{UID: "evt-1", Title: "Later", Date: "2025-04-20", Time: "09:00"}))
	require.NoError(t, repo.Create(ctx, Event{UID: "evt-2", Title: "Earlier", Date: "2025-04-19", Time: "20:00"}))
	require.NoError(t, repo.Create(ctx, Event{UID: "evt-3", Title: "SameDayEarlier", Date: "2025-04-20", Time: "08:00"}))

	events, err := repo.GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "evt-2", events[0].UID)
	assert.Equal(t, "evt-3", events[1].UID)
	assert.Equal(t, "evt-1", events[2].UID)
}
