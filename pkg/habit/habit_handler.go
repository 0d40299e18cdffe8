package habit

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ritmo-app/ritmo/internal/rest"
	"github.com/ritmo-app/ritmo/internal/utils"
)

type HabitDTO struct {
	Id          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	GoalAmount  int    `json:"goalAmount"`
	GoalUnit    string `json:"goalUnit,omitempty"`
	IsAllDay    bool   `json:"isAllDay"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Frequency   string `json:"frequency"`
	RepeatEvery int    `json:"repeatEvery"`
	RepeatDays  []int  `json:"repeatDays,omitempty"`
}

type HabitHandler struct {
	habitService Service
}

func NewHabitHandler(habitService Service) *HabitHandler {
	return &HabitHandler{habitService}
}

// Create godoc
// @Summary Create a new habit
// @Description Register a new habit definition with its recurrence rule
// @Tags Habit
// @Accept json
// @Produce json
// @Param habit body HabitDTO true "Habit"
// @Success 201 {object} HabitDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/habit [post]
func (handler *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new habit")
	w.Header().Set("Content-Type", "application/json")

	var habitDTO HabitDTO
	if err := json.NewDecoder(r.Body).Decode(&habitDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	habit, err := DTOToHabit(habitDTO)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := handler.habitService.CreateHabit(r.Context(), habit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(HabitToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetAll godoc
// @Summary List habits
// @Description List all habit definitions of the current user
// @Tags Habit
// @Produce json
// @Success 200 {array} HabitDTO
// @Router /api/habit [get]
func (handler *HabitHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	habits, err := handler.habitService.GetAllHabits(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	habitsDTO := make([]HabitDTO, 0, len(habits))
	for _, habit := range habits {
		habitsDTO = append(habitsDTO, HabitToDTO(habit))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(habitsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Get godoc
// @Summary Get a habit
// @Description Get a single habit definition by id
// @Tags Habit
// @Produce json
// @Param habitId path string true "Habit ID"
// @Success 200 {object} HabitDTO
// @Failure 404 {object} rest.ErrorResponse "Habit not found"
// @Router /api/habit/{habitId} [get]
func (handler *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	habitId := mux.Vars(r)["habitId"]

	habit, err := handler.habitService.GetHabit(r.Context(), habitId)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(HabitToDTO(habit)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Update godoc
// @Summary Update a habit
// @Description Replace a habit definition, recurrence rule included
// @Tags Habit
// @Accept json
// @Produce json
// @Param habitId path string true "Habit ID"
// @Param habit body HabitDTO true "Habit"
// @Success 200 {object} HabitDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Habit not found"
// @Router /api/habit/{habitId} [put]
func (handler *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	habitId := mux.Vars(r)["habitId"]

	var habitDTO HabitDTO
	if err := json.NewDecoder(r.Body).Decode(&habitDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}
	if habitDTO.Id != "" && habitDTO.Id != habitId {
		rest.WriteError(w, http.StatusBadRequest, "Invalid habit id in request body")
		return
	}
	habitDTO.Id = habitId

	habit, err := DTOToHabit(habitDTO)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := handler.habitService.UpdateHabit(r.Context(), habit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(HabitToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Delete godoc
// @Summary Delete a habit
// @Description Delete a habit definition and all records that reference it
// @Tags Habit
// @Param habitId path string true "Habit ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Habit not found"
// @Router /api/habit/{habitId} [delete]
func (handler *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	habitId := mux.Vars(r)["habitId"]

	if err := handler.habitService.DeleteHabit(r.Context(), habitId); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrHabitNotFound):
		rest.WriteError(w, http.StatusNotFound, "Habit not found")
	case errors.Is(err, ErrEmptyName):
		rest.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func HabitToDTO(habit Habit) HabitDTO {
	dto := HabitDTO{
		Id:          habit.Id,
		Name:        habit.Name,
		Icon:        habit.Icon,
		Color:       habit.Color,
		GoalAmount:  habit.GoalAmount,
		GoalUnit:    habit.GoalUnit,
		IsAllDay:    habit.IsAllDay,
		StartTime:   habit.StartTime,
		EndTime:     habit.EndTime,
		StartDate:   utils.FormatDate(habit.StartDate),
		Frequency:   string(habit.Frequency),
		RepeatEvery: habit.RepeatEvery,
		RepeatDays:  habit.RepeatDays,
	}
	if habit.EndDate != nil {
		dto.EndDate = utils.FormatDate(*habit.EndDate)
	}
	return dto
}

func DTOToHabit(dto HabitDTO) (Habit, error) {
	startDate, err := utils.ParseDate(dto.StartDate)
	if err != nil {
		return Habit{}, errors.New("startDate must be a YYYY-MM-DD date")
	}
	habit := Habit{
		Id:          dto.Id,
		Name:        dto.Name,
		Icon:        dto.Icon,
		Color:       dto.Color,
		GoalAmount:  dto.GoalAmount,
		GoalUnit:    dto.GoalUnit,
		IsAllDay:    dto.IsAllDay,
		StartTime:   dto.StartTime,
		EndTime:     dto.EndTime,
		StartDate:   startDate,
		Frequency:   Frequency(dto.Frequency),
		RepeatEvery: dto.RepeatEvery,
		RepeatDays:  dto.RepeatDays,
	}
	if dto.EndDate != "" {
		endDate, err := utils.ParseDate(dto.EndDate)
		if err != nil {
			return Habit{}, errors.New("endDate must be a YYYY-MM-DD date")
		}
		habit.EndDate = &endDate
	}
	return habit, nil
}
