package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ritmo-app/ritmo/internal/config"
	"github.com/ritmo-app/ritmo/internal/event_bus"
	"github.com/ritmo-app/ritmo/pkg/exception"
	"github.com/ritmo-app/ritmo/pkg/google"
	"github.com/ritmo-app/ritmo/pkg/habit"
	"github.com/ritmo-app/ritmo/pkg/progress"
	"github.com/ritmo-app/ritmo/pkg/schedule"
	"github.com/ritmo-app/ritmo/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	HabitRepo    habit.Repo
	HabitService habit.Service
	HabitHandler *habit.HabitHandler

	ExceptionRepo    exception.Repo
	ExceptionService exception.Service
	ExceptionHandler *exception.ExceptionHandler

	ProgressRepo    progress.Repo
	ProgressService progress.Service
	ProgressHandler *progress.ProgressHandler

	ScheduleService schedule.Service
	StatsService    schedule.StatsService
	CsvWeekRenderer *schedule.CsvWeekRendererImpl
	ScheduleHandler *schedule.ScheduleHandler

	GoogleAuth    *google.GoogleAuth
	GoogleService google.Service
	GoogleHandler *google.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.HabitRepo = habit.NewHabitRepo(db)
	deps.HabitService = habit.NewHabitService(deps.HabitRepo, deps.EventBus)
	deps.HabitHandler = habit.NewHabitHandler(deps.HabitService)

	deps.ExceptionRepo = exception.NewExceptionRepo(db)
	deps.ExceptionService = exception.NewExceptionService(deps.ExceptionRepo, deps.HabitService, deps.EventBus)
	deps.ExceptionHandler = exception.NewExceptionHandler(deps.ExceptionService)

	deps.ProgressRepo = progress.NewProgressRepo(db)
	deps.ProgressService = progress.NewProgressService(deps.ProgressRepo)
	deps.ProgressHandler = progress.NewProgressHandler(deps.ProgressService)

	deps.ScheduleService = schedule.NewScheduleService(deps.HabitService, deps.ExceptionService, deps.ProgressService)
	deps.StatsService = schedule.NewStatsService(deps.ScheduleService, deps.HabitService, deps.ExceptionService, deps.ProgressService)
	deps.CsvWeekRenderer = schedule.NewCsvWeekRenderer()
	deps.ScheduleHandler = schedule.NewScheduleHandler(deps.ScheduleService, deps.StatsService, deps.CsvWeekRenderer)

	deps.GoogleAuth = google.NewGoogleAuth(db, deps.UserService, cfg)
	deps.GoogleService = google.NewService(deps.GoogleAuth, deps.ScheduleService)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)

	// Deleting a habit cascades to everything recorded against it. Handlers
	// run in subscription order: progress first, then exceptions.
	event_bus.SubscribeTyped(deps.EventBus, event_bus.HabitDeletedEvent,
		func(e event_bus.EventT[event_bus.HabitDeleted]) error {
			return deps.ProgressService.PurgeHabit(e.Context(), e.Data.HabitId)
		})
	event_bus.SubscribeTyped(deps.EventBus, event_bus.HabitDeletedEvent,
		func(e event_bus.EventT[event_bus.HabitDeleted]) error {
			return deps.ExceptionService.PurgeHabit(e.Context(), e.Data.HabitId)
		})

	return deps
}
