package app

import (
	"github.com/gorilla/mux"
	"github.com/parokya/parokya/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Availability
	r.HandleFunc("/api/availability", deps.AvailabilityHandler.GetRange).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/availability", deps.AvailabilityHandler.GetDay).Queries("date", "{date}").Methods("GET")

	// Time slots
	r.HandleFunc("/api/slot", deps.SlotHandler.GetSlots).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/slot", deps.SlotHandler.CreateSlots).Methods("POST")

	// Appointments
	r.HandleFunc("/api/appointment", deps.AppointmentHandler.Book).Methods("POST")
	r.HandleFunc("/api/appointment", deps.AppointmentHandler.GetOwn).Methods("GET")
	r.HandleFunc("/api/appointment/{appointmentId}", deps.AppointmentHandler.Cancel).Methods("DELETE")

	// Sacrament catalog
	r.HandleFunc("/api/sacrament", deps.SacramentHandler.GetAll).Methods("GET")

	// Parish events
	r.HandleFunc("/api/event", deps.EventHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/event", deps.EventHandler.Create).Methods("POST")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.Get).Methods("GET")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.Update).Methods("PUT")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.Delete).Methods("DELETE")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
}
