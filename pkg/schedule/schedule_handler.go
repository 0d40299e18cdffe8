package schedule

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ritmo-app/ritmo/internal/rest"
	"github.com/ritmo-app/ritmo/internal/utils"
	"github.com/ritmo-app/ritmo/pkg/habit"
)

type OccurrenceDTO struct {
	Habit      habit.HabitDTO `json:"habit"`
	Date       string         `json:"date"`
	Overridden bool           `json:"overridden,omitempty"`
	Progress   int            `json:"progress"`
	Completed  bool           `json:"completed"`
}

type DayScheduleDTO struct {
	Date        string          `json:"date"`
	Occurrences []OccurrenceDTO `json:"occurrences"`
}

type DayStatsDTO struct {
	Date      string `json:"date"`
	Scheduled int    `json:"scheduled"`
	Completed int    `json:"completed"`
}

type HabitStatsDTO struct {
	Habit     habit.HabitDTO `json:"habit"`
	Scheduled int            `json:"scheduled"`
	Completed int            `json:"completed"`
	Streak    int            `json:"streak"`
}

type WeeklySummaryDTO struct {
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	Days           []DayStatsDTO   `json:"days"`
	Habits         []HabitStatsDTO `json:"habits"`
	Scheduled      int             `json:"scheduled"`
	Completed      int             `json:"completed"`
	Streak         int             `json:"streak"`
	CompletionRate float64         `json:"completionRate"`
}

type ScheduleHandler struct {
	scheduleService Service
	statsService    StatsService
	csvWeekRenderer WeekRenderer
}

func NewScheduleHandler(scheduleService Service, statsService StatsService, csvWeekRenderer WeekRenderer) *ScheduleHandler {
	return &ScheduleHandler{scheduleService, statsService, csvWeekRenderer}
}

// GetDay godoc
// @Summary Get a day's schedule
// @Description Resolve all habit occurrences of one calendar day
// @Tags Schedule
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} DayScheduleDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/schedule/day [get]
func (handler *ScheduleHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	day, err := handler.scheduleService.OccurrencesOn(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dayToDTO(day)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetWeek godoc
// @Summary Get a week's schedule
// @Description Resolve the Sunday-based calendar week containing the date
// @Tags Schedule
// @Produce json
// @Param date query string true "Any date inside the week (YYYY-MM-DD)"
// @Success 200 {array} DayScheduleDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/schedule/week [get]
func (handler *ScheduleHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	days, err := handler.scheduleService.OccurrencesForWeek(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	daysDTO := make([]DayScheduleDTO, 0, len(days))
	for _, day := range days {
		daysDTO = append(daysDTO, dayToDTO(day))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(daysDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetWeeklyStats godoc
// @Summary Get weekly statistics
// @Description Completion numbers and per-habit streaks for the week, JSON or CSV
// @Tags Schedule
// @Produce json
// @Produce text/csv
// @Param date query string true "Any date inside the week (YYYY-MM-DD)"
// @Success 200 {object} WeeklySummaryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/stats/week [get]
func (handler *ScheduleHandler) GetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	summary, err := handler.statsService.WeeklyStats(r.Context(), date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		days, err := handler.scheduleService.OccurrencesForWeek(r.Context(), date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		csv, err := handler.csvWeekRenderer.RenderWeek(summary, days)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateString := r.URL.Query().Get("date")
	if dateString == "" {
		rest.WriteError(w, http.StatusBadRequest, "date query parameter is required")
		return time.Time{}, false
	}
	date, err := utils.ParseDate(dateString)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "date must be a YYYY-MM-DD date")
		return time.Time{}, false
	}
	return date, true
}

func dayToDTO(day DaySchedule) DayScheduleDTO {
	occurrencesDTO := make([]OccurrenceDTO, 0, len(day.Occurrences))
	for _, occurrence := range day.Occurrences {
		occurrencesDTO = append(occurrencesDTO, OccurrenceDTO{
			Habit:      habit.HabitToDTO(occurrence.Habit),
			Date:       utils.FormatDate(occurrence.Date),
			Overridden: occurrence.Overridden,
			Progress:   occurrence.Progress,
			Completed:  occurrence.Completed,
		})
	}
	return DayScheduleDTO{
		Date:        utils.FormatDate(day.Date),
		Occurrences: occurrencesDTO,
	}
}

func summaryToDTO(summary WeeklySummary) WeeklySummaryDTO {
	daysDTO := make([]DayStatsDTO, 0, len(summary.Days))
	for _, day := range summary.Days {
		daysDTO = append(daysDTO, DayStatsDTO{
			Date:      utils.FormatDate(day.Date),
			Scheduled: day.Scheduled,
			Completed: day.Completed,
		})
	}
	habitsDTO := make([]HabitStatsDTO, 0, len(summary.Habits))
	for _, habitStats := range summary.Habits {
		habitsDTO = append(habitsDTO, HabitStatsDTO{
			Habit:     habit.HabitToDTO(habitStats.Habit),
			Scheduled: habitStats.Scheduled,
			Completed: habitStats.Completed,
			Streak:    habitStats.Streak,
		})
	}
	return WeeklySummaryDTO{
		StartDate:      utils.FormatDate(summary.StartDate),
		EndDate:        utils.FormatDate(summary.EndDate),
		Days:           daysDTO,
		Habits:         habitsDTO,
		Scheduled:      summary.Scheduled,
		Completed:      summary.Completed,
		Streak:         summary.Streak,
		CompletionRate: summary.CompletionRate,
	}
}
