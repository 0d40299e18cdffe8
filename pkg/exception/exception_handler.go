package exception

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ritmo-app/ritmo/internal/rest"
	"github.com/ritmo-app/ritmo/internal/utils"
	"github.com/ritmo-app/ritmo/pkg/habit"
)

// OverrideDTO carries per-date field changes. Absent fields keep the base
// habit's values.
type OverrideDTO struct {
	HabitId    string  `json:"habitId,omitempty"`
	Date       string  `json:"date,omitempty"`
	Name       *string `json:"name,omitempty"`
	Icon       *string `json:"icon,omitempty"`
	Color      *string `json:"color,omitempty"`
	GoalAmount *int    `json:"goalAmount,omitempty"`
	GoalUnit   *string `json:"goalUnit,omitempty"`
	IsAllDay   *bool   `json:"isAllDay,omitempty"`
	StartTime  *string `json:"startTime,omitempty"`
	EndTime    *string `json:"endTime,omitempty"`
}

type ExceptionHandler struct {
	exceptionService Service
}

func NewExceptionHandler(exceptionService Service) *ExceptionHandler {
	return &ExceptionHandler{exceptionService}
}

// OverrideOccurrence godoc
// @Summary Override a single occurrence
// @Description Store per-date field changes for one occurrence of a habit
// @Tags Exception
// @Accept json
// @Produce json
// @Param habitId path string true "Habit ID"
// @Param date query string true "Occurrence date (YYYY-MM-DD)"
// @Param override body OverrideDTO true "Field changes"
// @Success 200 {object} OverrideDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Habit not found"
// @Router /api/habit/{habitId}/occurrence [put]
func (handler *ExceptionHandler) OverrideOccurrence(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	habitId := mux.Vars(r)["habitId"]
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var dto OverrideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	override := dtoToOverride(dto)
	override.HabitId = habitId
	override.Date = date

	stored, err := handler.exceptionService.SaveOverride(r.Context(), override)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(overrideToDTO(stored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DeleteOccurrence godoc
// @Summary Delete a single occurrence
// @Description Hide one occurrence of a habit without touching the series
// @Tags Exception
// @Param habitId path string true "Habit ID"
// @Param date query string true "Occurrence date (YYYY-MM-DD)"
// @Success 204 "No Content"
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Habit not found"
// @Router /api/habit/{habitId}/occurrence [delete]
func (handler *ExceptionHandler) DeleteOccurrence(w http.ResponseWriter, r *http.Request) {
	habitId := mux.Vars(r)["habitId"]
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	if err := handler.exceptionService.MarkDeleted(r.Context(), habitId, date); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreOccurrence godoc
// @Summary Restore a deleted occurrence
// @Description Remove the deletion marker of an occurrence
// @Tags Exception
// @Param habitId path string true "Habit ID"
// @Param date query string true "Occurrence date (YYYY-MM-DD)"
// @Success 204 "No Content"
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/habit/{habitId}/occurrence/restore [post]
func (handler *ExceptionHandler) RestoreOccurrence(w http.ResponseWriter, r *http.Request) {
	habitId := mux.Vars(r)["habitId"]
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	if err := handler.exceptionService.RestoreOccurrence(r.Context(), habitId, date); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OverrideFollowing godoc
// @Summary Change this and following occurrences
// @Description Split the series at the date and apply changes to the continuation
// @Tags Exception
// @Accept json
// @Produce json
// @Param habitId path string true "Habit ID"
// @Param date query string true "First changed date (YYYY-MM-DD)"
// @Param override body OverrideDTO true "Field changes"
// @Success 200 {object} habit.HabitDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Habit not found"
// @Router /api/habit/{habitId}/following [put]
func (handler *ExceptionHandler) OverrideFollowing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	habitId := mux.Vars(r)["habitId"]
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var dto OverrideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	changed, err := handler.exceptionService.SplitSeriesAt(r.Context(), habitId, date, dtoToOverride(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(habit.HabitToDTO(changed)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DeleteFollowing godoc
// @Summary Delete this and following occurrences
// @Description End the series the day before the date, or delete it entirely
// @Tags Exception
// @Param habitId path string true "Habit ID"
// @Param date query string true "First deleted date (YYYY-MM-DD)"
// @Success 204 "No Content"
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Habit not found"
// @Router /api/habit/{habitId}/following [delete]
func (handler *ExceptionHandler) DeleteFollowing(w http.ResponseWriter, r *http.Request) {
	habitId := mux.Vars(r)["habitId"]
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	if err := handler.exceptionService.TruncateFutureFrom(r.Context(), habitId, date); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateString := r.URL.Query().Get("date")
	if dateString == "" {
		rest.WriteError(w, http.StatusBadRequest, "date query parameter is required")
		return time.Time{}, false
	}
	date, err := utils.ParseDate(dateString)
	if err != nil {
		log.Debugf("invalid date parameter: %v", err)
		rest.WriteError(w, http.StatusBadRequest, "date must be a YYYY-MM-DD date")
		return time.Time{}, false
	}
	return date, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, habit.ErrHabitNotFound):
		rest.WriteError(w, http.StatusNotFound, "Habit not found")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func overrideToDTO(override Override) OverrideDTO {
	return OverrideDTO{
		HabitId:    override.HabitId,
		Date:       utils.FormatDate(override.Date),
		Name:       override.Name,
		Icon:       override.Icon,
		Color:      override.Color,
		GoalAmount: override.GoalAmount,
		GoalUnit:   override.GoalUnit,
		IsAllDay:   override.IsAllDay,
		StartTime:  override.StartTime,
		EndTime:    override.EndTime,
	}
}

func dtoToOverride(dto OverrideDTO) Override {
	return Override{
		Name:       dto.Name,
		Icon:       dto.Icon,
		Color:      dto.Color,
		GoalAmount: dto.GoalAmount,
		GoalUnit:   dto.GoalUnit,
		IsAllDay:   dto.IsAllDay,
		StartTime:  dto.StartTime,
		EndTime:    dto.EndTime,
	}
}
