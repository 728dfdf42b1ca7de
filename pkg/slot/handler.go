package slot

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parokya/parokya/internal/rest"
)

type Handler struct {
	service *Service
}

type TimeSlotDTO struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

type CreateSlotsDTO struct {
	Date   string   `json:"date"`
	Labels []string `json:"labels"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	date := r.URL.Query().Get("date")
	slots, err := h.service.ListSlots(r.Context(), date)
	if err != nil {
		if errors.Is(err, ErrInvalidSlotInput) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TimeSlotDTO, 0, len(slots))
	for _, s := range slots {
		dtos = append(dtos, slotToDTO(s))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateSlots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto CreateSlotsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateSlots(r.Context(), dto.Date, dto.Labels)
	if err != nil {
		if errors.Is(err, ErrInvalidSlotInput) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TimeSlotDTO, 0, len(created))
	for _, s := range created {
		dtos = append(dtos, slotToDTO(s))
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func slotToDTO(s TimeSlot) TimeSlotDTO {
	return TimeSlotDTO{
		ID:     s.ID,
		Date:   s.Date,
		Label:  s.Label,
		Status: string(s.Status),
	}
}
