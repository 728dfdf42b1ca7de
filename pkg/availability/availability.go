package availability

// DateAvailabilitySummary is a derived view of one date's slot occupancy.
// It is computed on demand and never persisted.
type DateAvailabilitySummary struct {
	Date          string
	TotalSlots    int
	BookedSlots   int
	IsFullyBooked bool
}
