package progress

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ritmo-app/ritmo/internal/rest"
	"github.com/ritmo-app/ritmo/internal/utils"
)

type ProgressDTO struct {
	HabitId string `json:"habitId"`
	Date    string `json:"date"`
	Amount  int    `json:"amount"`
}

type ProgressHandler struct {
	progressService Service
}

func NewProgressHandler(progressService Service) *ProgressHandler {
	return &ProgressHandler{progressService}
}

// Get godoc
// @Summary Get logged progress
// @Description Get the amount logged against a habit occurrence
// @Tags Progress
// @Produce json
// @Param habitId path string true "Habit ID"
// @Param date query string true "Occurrence date (YYYY-MM-DD)"
// @Success 200 {object} ProgressDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/progress/{habitId} [get]
func (handler *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	habitId := mux.Vars(r)["habitId"]
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	record, err := handler.progressService.GetProgress(r.Context(), habitId, date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(recordToDTO(record)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Set godoc
// @Summary Log progress
// @Description Replace the amount logged against a habit occurrence
// @Tags Progress
// @Accept json
// @Produce json
// @Param habitId path string true "Habit ID"
// @Param date query string true "Occurrence date (YYYY-MM-DD)"
// @Param progress body ProgressDTO true "Progress"
// @Success 200 {object} ProgressDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/progress/{habitId} [put]
func (handler *ProgressHandler) Set(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	habitId := mux.Vars(r)["habitId"]
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var dto ProgressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	record, err := handler.progressService.SetProgress(r.Context(), Record{
		HabitId: habitId,
		Date:    date,
		Amount:  dto.Amount,
	})
	if errors.Is(err, ErrNegativeAmount) {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(recordToDTO(record)); err != nil {
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

func recordToDTO(record Record) ProgressDTO {
	return ProgressDTO{
		HabitId: record.HabitId,
		Date:    utils.FormatDate(record.Date),
		Amount:  record.Amount,
	}
}
