package google

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ritmo-app/ritmo/internal/rest"
	"github.com/ritmo-app/ritmo/internal/utils"
)

type CalendarItemDto struct {
	Id      string `json:"id"`
	Summary string `json:"summary"`
}

type exportResult struct {
	Exported int `json:"exported"`
}

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s}
}

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	calendars, err := h.service.ListCalendars(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	calendarItems := make([]CalendarItemDto, 0, len(calendars))
	for _, c := range calendars {
		calendarItems = append(calendarItems, toCalendarItemDto(c))
	}

	if err := writeJson(w, calendarItems); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ExportWeek(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	calendarId := mux.Vars(r)["calendarId"]

	dateString := r.URL.Query().Get("date")
	if dateString == "" {
		rest.WriteError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	date, err := utils.ParseDate(dateString)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "date must be a YYYY-MM-DD date")
		return
	}

	exported, err := h.service.ExportWeek(r.Context(), calendarId, date)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := writeJson(w, exportResult{Exported: exported}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toCalendarItemDto(ci CalendarItem) CalendarItemDto {
	return CalendarItemDto{
		Id:      ci.ID,
		Summary: ci.Summary,
	}
}

func writeJson(w http.ResponseWriter, v any) error {
	return json.NewEncoder(w).Encode(v)
}
