package availability

import (
	"context"
	"testing"

	"github.com/parokya/parokya/pkg/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCalculatorTest(t *testing.T) (*Calculator, *slot.StubStore, context.Context) {
	store := slot.NewStubStore()
	return NewCalculator(store), store, context.Background()
}

func TestCalculator_AvailableSlotsFiltersBooked(t *testing.T) {
	calculator, store, ctx := setupCalculatorTest(t)
	created, err := store.CreateSlots(ctx, "2025-04-05", []string{"6:00 AM", "8:00 AM", "10:00 AM"})
	require.NoError(t, err)
	require.NoError(t, store.TryReserve(ctx, created[1].ID))

	available, err := calculator.AvailableSlots(ctx, "2025-04-05")

	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "6:00 AM", available[0].Label)
	assert.Equal(t, "10:00 AM", available[1].Label)
}

func TestCalculator_IsFullyBooked(t *testing.T) {
	calculator, store, ctx := setupCalculatorTest(t)
	created, err := store.CreateSlots(ctx, "2025-04-05", []string{"6:00 AM", "8:00 AM", "10:00 AM"})
	require.NoError(t, err)

	// Not fully booked until every slot is BOOKED
	for i, s := range created {
		fullyBooked, err := calculator.IsFullyBooked(ctx, "2025-04-05")
		require.NoError(t, err)
		assert.Falsef(t, fullyBooked, "date must not be fully booked with %d of %d slots taken", i, len(created))

		require.NoError(t, store.TryReserve(ctx, s.ID))
	}

	fullyBooked, err := calculator.IsFullyBooked(ctx, "2025-04-05")
	require.NoError(t, err)
	assert.True(t, fullyBooked)
}

func TestCalculator_DateWithoutSlotsIsNotFullyBooked(t *testing.T) {
	calculator, _, ctx := setupCalculatorTest(t)

	fullyBooked, err := calculator.IsFullyBooked(ctx, "2025-12-24")
	require.NoError(t, err)
	assert.False(t, fullyBooked)

	available, err := calculator.AvailableSlots(ctx, "2025-12-24")
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestCalculator_Summarize(t *testing.T) {
	calculator, store, ctx := setupCalculatorTest(t)

	fullDay, err := store.CreateSlots(ctx, "2025-04-05", []string{"6:00 AM", "8:00 AM"})
	require.NoError(t, err)
	for _, s := range fullDay {
		require.NoError(t, store.TryReserve(ctx, s.ID))
	}
	partialDay, err := store.CreateSlots(ctx, "2025-04-06", []string{"6:00 AM", "8:00 AM"})
	require.NoError(t, err)
	require.NoError(t, store.TryReserve(ctx, partialDay[0].ID))

	summaries, err := calculator.Summarize(ctx, "2025-04-05", "2025-04-07")

	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, DateAvailabilitySummary{
		Date: "2025-04-05", TotalSlots: 2, BookedSlots: 2, IsFullyBooked: true,
	}, summaries["2025-04-05"])
	assert.Equal(t, DateAvailabilitySummary{
		Date: "2025-04-06", TotalSlots: 2, BookedSlots: 1, IsFullyBooked: false,
	}, summaries["2025-04-06"])
	// Nothing configured on the last day
	assert.Equal(t, DateAvailabilitySummary{
		Date: "2025-04-07", TotalSlots: 0, BookedSlots: 0, IsFullyBooked: false,
	}, summaries["2025-04-07"])
}

func TestCalculator_SummarizeInvalidRange(t *testing.T) {
	calculator, _, ctx := setupCalculatorTest(t)

	testCases := []struct {
		name string
		from string
		to   string
	}{
		{name: "Malformed from", from: "05-04-2025", to: "2025-04-07"},
		{name: "Malformed to", from: "2025-04-05", to: "next week"},
		{name: "Reversed range", from: "2025-04-07", to: "2025-04-05"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calculator.Summarize(ctx, tc.from, tc.to)
			assert.ErrorIs(t, err, ErrInvalidDateRange)
		})
	}
}
