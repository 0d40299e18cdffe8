package google

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ritmo-app/ritmo/pkg/schedule"
	"github.com/ritmo-app/ritmo/pkg/user"
)

type CalendarItem struct {
	ID      string
	Summary string
}

type Service interface {
	ListCalendars(ctx context.Context) ([]CalendarItem, error)
	// ExportWeek inserts one event per habit occurrence of the week into the
	// given Google calendar and returns the number of exported events.
	ExportWeek(ctx context.Context, calendarId string, date time.Time) (int, error)
}

type ServiceImpl struct {
	auth            *GoogleAuth
	scheduleService schedule.Service
}

func NewService(auth *GoogleAuth, scheduleService schedule.Service) *ServiceImpl {
	return &ServiceImpl{
		auth:            auth,
		scheduleService: scheduleService,
	}
}

func (s *ServiceImpl) ListCalendars(ctx context.Context) ([]CalendarItem, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	googleService, err := s.prepareGoogleService(ctx, userId)
	if err != nil {
		return nil, err
	}
	calendars, err := googleService.CalendarList.List().Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve calendars from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}
	var googleCalendars []CalendarItem
	for _, cal := range calendars.Items {
		googleCalendars = append(googleCalendars, CalendarItem{
			ID:      cal.Id,
			Summary: cal.Summary,
		})
	}
	return googleCalendars, nil
}

func (s *ServiceImpl) ExportWeek(ctx context.Context, calendarId string, date time.Time) (int, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current user: %w", err)
	}

	googleService, err := s.prepareGoogleService(ctx, currentUser.Id)
	if err != nil {
		return 0, err
	}

	location, err := time.LoadLocation(currentUser.Settings.Timezone)
	if err != nil {
		err := fmt.Errorf("could not load location for timezone %s", currentUser.Settings.Timezone)
		log.Error(err)
		return 0, err
	}

	days, err := s.scheduleService.OccurrencesForWeek(ctx, date)
	if err != nil {
		return 0, err
	}

	exported := 0
	for _, day := range days {
		for _, occurrence := range day.Occurrences {
			event, err := occurrenceToEvent(occurrence, location)
			if err != nil {
				return exported, err
			}
			if _, err := googleService.Events.Insert(calendarId, event).Do(); err != nil {
				err := fmt.Errorf("unable to insert event in Google Calendar: %v", err)
				log.Error(err)
				return exported, err
			}
			exported++
		}
	}
	log.Debugf("Exported %d occurrences to calendar %s", exported, calendarId)
	return exported, nil
}

// occurrenceToEvent maps a resolved occurrence to a calendar event. All-day
// habits become all-day events; timed habits get their start and end times
// in the user's timezone.
func occurrenceToEvent(occurrence schedule.Occurrence, location *time.Location) (*calendar.Event, error) {
	h := occurrence.Habit
	summary := h.Name
	if h.GoalAmount > 1 {
		summary = fmt.Sprintf("%s (%d %s)", h.Name, h.GoalAmount, h.GoalUnit)
	}
	event := &calendar.Event{Summary: summary}

	if h.IsAllDay {
		day := occurrence.Date.Format("2006-01-02")
		event.Start = &calendar.EventDateTime{Date: day}
		event.End = &calendar.EventDateTime{Date: occurrence.Date.AddDate(0, 0, 1).Format("2006-01-02")}
		return event, nil
	}

	start, err := timeOfDayOn(occurrence.Date, h.StartTime, location)
	if err != nil {
		return nil, err
	}
	end, err := timeOfDayOn(occurrence.Date, h.EndTime, location)
	if err != nil {
		return nil, err
	}
	event.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)}
	event.End = &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)}
	return event, nil
}

func timeOfDayOn(day time.Time, timeOfDay string, location *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", timeOfDay, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, location), nil
}

func (s *ServiceImpl) prepareGoogleService(ctx context.Context, userId int) (*calendar.Service, error) {
	client, err := s.auth.getClient(ctx, userId)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Google auth client: %v", err)
		log.Error(err)
		return nil, err
	}
	if client == nil {
		log.Debug("user is unauthenticated, authentication is required")
		return nil, ErrUnauthenticated
	}
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}

	return service, nil
}
