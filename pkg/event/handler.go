package event

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/parokya/parokya/internal/rest"
)

type Handler struct {
	service *Service
}

type EventDTO struct {
	EventId     string `json:"eventId"`
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// ConflictResponse names the event already occupying the requested position.
type ConflictResponse struct {
	Error            string   `json:"error"`
	ConflictingEvent EventDTO `json:"conflictingEvent"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var events []Event
	var err error
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from != "" || to != "" {
		events, err = h.service.GetEventsBetween(r.Context(), from, to)
	} else {
		events, err = h.service.GetAllEvents(r.Context())
	}
	if err != nil {
		writeEventError(w, err)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	e, err := h.service.GetEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventToDTO(e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateEvent(r.Context(), dtoToEvent(dto))
	if err != nil {
		writeEventError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.EventId = mux.Vars(r)["eventId"]

	updated, err := h.service.UpdateEvent(r.Context(), dtoToEvent(dto))
	if err != nil {
		writeEventError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeEventError(w http.ResponseWriter, err error) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(ConflictResponse{
			Error:            "Another event occupies this date and time",
			ConflictingEvent: eventToDTO(conflict.Conflicting),
		})
	case errors.Is(err, ErrEventConflict):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Another event occupies this date and time",
		})
	case errors.Is(err, ErrInvalidEventInput):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid event",
			Details: err.Error(),
		})
	case errors.Is(err, ErrEventNotFound):
		http.Error(w, "Event not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func eventToDTO(e Event) EventDTO {
	return EventDTO{
		EventId:     e.UID,
		Title:       e.Title,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Description: e.Description,
	}
}

func dtoToEvent(dto EventDTO) Event {
	return Event{
		UID:         dto.EventId,
		Title:       dto.Title,
		Date:        dto.Date,
		Time:        dto.Time,
		Location:    dto.Location,
		Description: dto.Description,
	}
}
