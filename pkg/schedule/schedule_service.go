package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ritmo-app/ritmo/internal/utils"
	"github.com/ritmo-app/ritmo/pkg/exception"
	"github.com/ritmo-app/ritmo/pkg/habit"
	"github.com/ritmo-app/ritmo/pkg/progress"
)

type Service interface {
	// OccurrencesOn resolves all habit occurrences of one calendar day:
	// recurrence matching, deletion markers, overrides and progress.
	OccurrencesOn(ctx context.Context, date time.Time) (DaySchedule, error)
	// OccurrencesForWeek resolves the Sunday-based calendar week containing
	// the given date.
	OccurrencesForWeek(ctx context.Context, date time.Time) ([]DaySchedule, error)
}

type ScheduleServiceImpl struct {
	habitService     habit.Service
	exceptionService exception.Service
	progressService  progress.Service
}

func NewScheduleService(
	habitService habit.Service,
	exceptionService exception.Service,
	progressService progress.Service,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		habitService:     habitService,
		exceptionService: exceptionService,
		progressService:  progressService,
	}
}

func (s *ScheduleServiceImpl) OccurrencesOn(ctx context.Context, date time.Time) (DaySchedule, error) {
	date = utils.ToDate(date)
	habits, err := s.habitService.GetAllHabits(ctx)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("failed to list habits: %w", err)
	}
	deleted, err := s.exceptionService.DeletedHabitIds(ctx, date)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("failed to get deletion markers: %w", err)
	}
	overrides, err := s.exceptionService.OverridesForDate(ctx, date)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("failed to get overrides: %w", err)
	}
	amounts, err := s.progressService.AmountsForDate(ctx, date)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("failed to get progress: %w", err)
	}

	occurrences := make([]Occurrence, 0, len(habits))
	for _, h := range habits {
		if !h.OccursOn(date) {
			continue
		}
		if deleted[h.Id] {
			continue
		}
		effective := h
		overridden := false
		if override, ok := overrides[h.Id]; ok {
			effective = override.ApplyTo(h)
			overridden = true
		}
		amount := amounts[h.Id]
		occurrences = append(occurrences, Occurrence{
			Habit:      effective,
			Date:       date,
			Overridden: overridden,
			Progress:   amount,
			Completed:  isCompleted(effective, amount),
		})
	}
	sortOccurrences(occurrences)
	return DaySchedule{Date: date, Occurrences: occurrences}, nil
}

func (s *ScheduleServiceImpl) OccurrencesForWeek(ctx context.Context, date time.Time) ([]DaySchedule, error) {
	weekStart := utils.StartOfWeek(date)
	days := make([]DaySchedule, 0, 7)
	for i := 0; i < 7; i++ {
		day, err := s.OccurrencesOn(ctx, weekStart.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

func isCompleted(h habit.Habit, amount int) bool {
	return h.GoalAmount > 0 && amount >= h.GoalAmount
}

// sortOccurrences orders a day: all-day habits first, timed habits by start
// time, same slot by name.
func sortOccurrences(occurrences []Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i].Habit, occurrences[j].Habit
		if a.IsAllDay != b.IsAllDay {
			return a.IsAllDay
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Name < b.Name
	})
}
