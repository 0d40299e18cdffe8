package app

import (
	"github.com/gorilla/mux"

	"github.com/ritmo-app/ritmo/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Habit definitions
	r.HandleFunc("/api/habit", deps.HabitHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/habit", deps.HabitHandler.Create).Methods("POST")
	r.HandleFunc("/api/habit/{habitId}", deps.HabitHandler.Get).Methods("GET")
	r.HandleFunc("/api/habit/{habitId}", deps.HabitHandler.Update).Methods("PUT")
	r.HandleFunc("/api/habit/{habitId}", deps.HabitHandler.Delete).Methods("DELETE")

	// Occurrence exceptions
	r.HandleFunc("/api/habit/{habitId}/occurrence", deps.ExceptionHandler.OverrideOccurrence).Queries("date", "{date}").Methods("PUT")
	r.HandleFunc("/api/habit/{habitId}/occurrence", deps.ExceptionHandler.DeleteOccurrence).Queries("date", "{date}").Methods("DELETE")
	r.HandleFunc("/api/habit/{habitId}/occurrence/restore", deps.ExceptionHandler.RestoreOccurrence).Queries("date", "{date}").Methods("POST")
	r.HandleFunc("/api/habit/{habitId}/following", deps.ExceptionHandler.OverrideFollowing).Queries("date", "{date}").Methods("PUT")
	r.HandleFunc("/api/habit/{habitId}/following", deps.ExceptionHandler.DeleteFollowing).Queries("date", "{date}").Methods("DELETE")

	// Progress
	r.HandleFunc("/api/progress/{habitId}", deps.ProgressHandler.Get).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/progress/{habitId}", deps.ProgressHandler.Set).Queries("date", "{date}").Methods("PUT")

	// Schedule and stats
	r.HandleFunc("/api/schedule/day", deps.ScheduleHandler.GetDay).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/schedule/week", deps.ScheduleHandler.GetWeek).Queries("date", "{date}").Methods("GET")
	r.HandleFunc("/api/stats/week", deps.ScheduleHandler.GetWeeklyStats).Queries("date", "{date}").Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/calendars", deps.GoogleHandler.ListCalendars).Methods("GET")
	r.HandleFunc("/api/integrations/google/calendars/{calendarId}/export", deps.GoogleHandler.ExportWeek).Queries("date", "{date}").Methods("POST")
}
