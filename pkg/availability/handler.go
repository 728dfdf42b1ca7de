package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/parokya/parokya/internal/rest"
	"github.com/parokya/parokya/internal/utils"
	"github.com/parokya/parokya/pkg/slot"
)

type Handler struct {
	calculator *Calculator
}

type DayAvailabilityDTO struct {
	Date          string             `json:"date"`
	Slots         []slot.TimeSlotDTO `json:"slots"`
	IsFullyBooked bool               `json:"isFullyBooked"`
}

type DateSummaryDTO struct {
	Date          string `json:"date"`
	TotalSlots    int    `json:"totalSlots"`
	BookedSlots   int    `json:"bookedSlots"`
	IsFullyBooked bool   `json:"isFullyBooked"`
}

func NewHandler(calculator *Calculator) *Handler {
	return &Handler{calculator}
}

// GetDay returns the free slots for a single date together with the
// fully-booked flag so the date picker can grey the date out.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	date := r.URL.Query().Get("date")
	if _, err := time.Parse(utils.DateLayout, date); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid date format",
			Details: "'date' must be formatted as " + utils.DateLayout,
		})
		return
	}

	available, err := h.calculator.AvailableSlots(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fullyBooked, err := h.calculator.IsFullyBooked(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := DayAvailabilityDTO{
		Date:          date,
		Slots:         make([]slot.TimeSlotDTO, 0, len(available)),
		IsFullyBooked: fullyBooked,
	}
	for _, s := range available {
		dto.Slots = append(dto.Slots, slot.TimeSlotDTO{
			ID:     s.ID,
			Date:   s.Date,
			Label:  s.Label,
			Status: string(s.Status),
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetRange returns per-date summaries for rendering calendar affordances.
func (h *Handler) GetRange(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	summaries, err := h.calculator.Summarize(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, ErrInvalidDateRange) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make(map[string]DateSummaryDTO, len(summaries))
	for date, summary := range summaries {
		dtos[date] = DateSummaryDTO{
			Date:          summary.Date,
			TotalSlots:    summary.TotalSlots,
			BookedSlots:   summary.BookedSlots,
			IsFullyBooked: summary.IsFullyBooked,
		}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
