package app

import (
	"database/sql"

	"github.com/parokya/parokya/internal/config"
	"github.com/parokya/parokya/internal/event_bus"
	"github.com/parokya/parokya/internal/jobs"
	"github.com/parokya/parokya/internal/utils"
	"github.com/parokya/parokya/pkg/appointment"
	"github.com/parokya/parokya/pkg/availability"
	"github.com/parokya/parokya/pkg/event"
	"github.com/parokya/parokya/pkg/notification"
	"github.com/parokya/parokya/pkg/sacrament"
	"github.com/parokya/parokya/pkg/slot"
	"github.com/parokya/parokya/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	SlotStore   slot.Store
	SlotService *slot.Service
	SlotHandler *slot.Handler

	AvailabilityCalculator *availability.Calculator
	AvailabilityHandler    *availability.Handler

	SacramentCatalog sacrament.Catalog
	SacramentHandler *sacrament.Handler

	AppointmentRepo        appointment.Repo
	AppointmentCoordinator *appointment.Coordinator
	AppointmentHandler     *appointment.Handler

	EventRepo          event.Repo
	EventConflictGuard *event.ConflictGuard
	EventService       *event.Service
	EventHandler       *event.Handler

	Notifier    *notification.Notifier
	ReminderJob *jobs.ReminderJob
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.SlotStore = slot.NewStore(db)
	deps.SlotService = slot.NewService(deps.SlotStore)
	deps.SlotHandler = slot.NewHandler(deps.SlotService)

	deps.AvailabilityCalculator = availability.NewCalculator(deps.SlotStore)
	deps.AvailabilityHandler = availability.NewHandler(deps.AvailabilityCalculator)

	deps.SacramentCatalog = sacrament.NewCatalog(db)
	deps.SacramentHandler = sacrament.NewHandler(deps.SacramentCatalog)

	deps.AppointmentRepo = appointment.NewRepo(db)
	deps.AppointmentCoordinator = appointment.NewCoordinator(deps.AppointmentRepo, deps.SlotStore, deps.SacramentCatalog, deps.EventBus, deps.Clock)
	deps.AppointmentHandler = appointment.NewHandler(deps.AppointmentCoordinator)

	deps.EventRepo = event.NewRepo(db)
	deps.EventConflictGuard = event.NewConflictGuard(deps.EventRepo)
	deps.EventService = event.NewService(deps.EventRepo, deps.EventConflictGuard)
	deps.EventHandler = event.NewHandler(deps.EventService)

	deps.Notifier = notification.NewNotifier()
	deps.Notifier.Start(deps.EventBus)

	deps.ReminderJob = jobs.NewReminderJob(deps.AppointmentCoordinator, deps.SlotStore, deps.EventBus, deps.Clock)

	return deps
}
