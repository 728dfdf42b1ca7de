package appointment

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/parokya/parokya/internal/rest"
	"github.com/parokya/parokya/pkg/slot"
	"github.com/parokya/parokya/pkg/user"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New()

type Handler struct {
	coordinator *Coordinator
}

type BookingRequestDTO struct {
	SacramentType string `json:"sacramentType" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlotID    int    `json:"timeSlotId" validate:"required,gt=0"`
}

type AppointmentDTO struct {
	AppointmentId string    `json:"appointmentId"`
	SacramentType string    `json:"sacramentType"`
	Date          string    `json:"date"`
	TimeSlotID    int       `json:"timeSlotId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator}
}

func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto BookingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid booking request",
			Details: err.Error(),
		})
		return
	}

	appt, err := h.coordinator.Book(r.Context(), BookingRequest{
		SacramentType: dto.SacramentType,
		Date:          dto.Date,
		TimeSlotID:    dto.TimeSlotID,
	})
	if err != nil {
		writeBookingError(w, err)
		return
	}

	log.Infof("appointment %s confirmed for slot %d on %s", appt.UID, appt.TimeSlotID, appt.Date)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(appointmentToDTO(appt)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetOwn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	appointments, err := h.coordinator.ListForRequester(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "no user in request", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]AppointmentDTO, 0, len(appointments))
	for _, appt := range appointments {
		dtos = append(dtos, appointmentToDTO(appt))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	appointmentUID := vars["appointmentId"]

	err := h.coordinator.Cancel(r.Context(), appointmentUID)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNoUser):
			http.Error(w, "no user in request", http.StatusForbidden)
		case errors.Is(err, ErrAppointmentNotFound):
			http.Error(w, "Appointment not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidTransition):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Appointment cannot be cancelled",
				Details: err.Error(),
			})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "no user in request", http.StatusForbidden)
	case errors.Is(err, slot.ErrSlotNotFound):
		http.Error(w, "Time slot not found", http.StatusNotFound)
	case errors.Is(err, slot.ErrSlotUnavailable):
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Time slot is no longer available",
			Details: "Another booking took this slot. Refresh availability and pick a different slot.",
		})
	case errors.Is(err, ErrPastDate), errors.Is(err, ErrDateMismatch),
		errors.Is(err, ErrUnknownSacrament), errors.Is(err, ErrInvalidDate):
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid booking request",
			Details: err.Error(),
		})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func appointmentToDTO(appt Appointment) AppointmentDTO {
	return AppointmentDTO{
		AppointmentId: appt.UID,
		SacramentType: appt.SacramentType,
		Date:          appt.Date,
		TimeSlotID:    appt.TimeSlotID,
		Status:        string(appt.Status),
		CreatedAt:     appt.CreatedAt,
	}
}
