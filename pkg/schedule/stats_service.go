package schedule

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ritmo-app/ritmo/internal/utils"
	"github.com/ritmo-app/ritmo/pkg/exception"
	"github.com/ritmo-app/ritmo/pkg/habit"
	"github.com/ritmo-app/ritmo/pkg/progress"
)

// maxStreakLookback bounds the walk into the past when counting a streak.
const maxStreakLookback = 4000

type StatsService interface {
	// WeeklyStats aggregates completion numbers and per-habit streaks for
	// the Sunday-based calendar week containing the given date.
	WeeklyStats(ctx context.Context, date time.Time) (WeeklySummary, error)
}

type StatsServiceImpl struct {
	scheduleService  Service
	habitService     habit.Service
	exceptionService exception.Service
	progressService  progress.Service
	clock            utils.Clock
}

func NewStatsService(
	scheduleService Service,
	habitService habit.Service,
	exceptionService exception.Service,
	progressService progress.Service,
) *StatsServiceImpl {
	return &StatsServiceImpl{
		scheduleService:  scheduleService,
		habitService:     habitService,
		exceptionService: exceptionService,
		progressService:  progressService,
		clock:            &utils.SystemClock{},
	}
}

func (s *StatsServiceImpl) WeeklyStats(ctx context.Context, date time.Time) (WeeklySummary, error) {
	days, err := s.scheduleService.OccurrencesForWeek(ctx, date)
	if err != nil {
		return WeeklySummary{}, err
	}

	summary := WeeklySummary{
		StartDate: days[0].Date,
		EndDate:   days[len(days)-1].Date,
		Days:      make([]DayStats, 0, len(days)),
	}
	statsByHabitId := make(map[string]*HabitStats)
	habitOrder := make([]string, 0)

	for _, day := range days {
		dayStats := DayStats{Date: day.Date}
		for _, occurrence := range day.Occurrences {
			dayStats.Scheduled++
			if occurrence.Completed {
				dayStats.Completed++
			}
			habitStats, ok := statsByHabitId[occurrence.Habit.Id]
			if !ok {
				habitStats = &HabitStats{Habit: occurrence.Habit}
				statsByHabitId[occurrence.Habit.Id] = habitStats
				habitOrder = append(habitOrder, occurrence.Habit.Id)
			}
			habitStats.Scheduled++
			if occurrence.Completed {
				habitStats.Completed++
			}
		}
		summary.Scheduled += dayStats.Scheduled
		summary.Completed += dayStats.Completed
		summary.Days = append(summary.Days, dayStats)
	}

	if summary.Scheduled > 0 {
		summary.CompletionRate = float64(summary.Completed) / float64(summary.Scheduled)
	}

	for _, habitId := range habitOrder {
		habitStats := statsByHabitId[habitId]
		streak, err := s.currentStreak(ctx, habitStats.Habit)
		if err != nil {
			return WeeklySummary{}, err
		}
		habitStats.Streak = streak
		summary.Habits = append(summary.Habits, *habitStats)
	}

	summary.Streak, err = s.overallStreak(ctx)
	if err != nil {
		return WeeklySummary{}, err
	}
	return summary, nil
}

// overallStreak counts consecutive days on which every scheduled habit was
// completed, walking backwards from today. Days with nothing scheduled are
// skipped and an incomplete today does not break the run.
func (s *StatsServiceImpl) overallStreak(ctx context.Context) (int, error) {
	habits, err := s.habitService.GetAllHabits(ctx)
	if err != nil {
		return 0, err
	}
	if len(habits) == 0 {
		return 0, nil
	}
	earliest := utils.ToDate(habits[0].StartDate)
	for _, h := range habits[1:] {
		start := utils.ToDate(h.StartDate)
		if start.Before(earliest) {
			earliest = start
		}
	}

	today := utils.ToDate(s.clock.Now())
	streak := 0
	for i := 0; i <= maxStreakLookback; i++ {
		day := today.AddDate(0, 0, -i)
		if day.Before(earliest) {
			return streak, nil
		}
		daySchedule, err := s.scheduleService.OccurrencesOn(ctx, day)
		if err != nil {
			return 0, err
		}
		if len(daySchedule.Occurrences) == 0 {
			continue
		}
		allCompleted := true
		for _, occurrence := range daySchedule.Occurrences {
			if !occurrence.Completed {
				allCompleted = false
				break
			}
		}
		if allCompleted {
			streak++
			continue
		}
		if day.Equal(today) {
			continue
		}
		return streak, nil
	}
	log.Warn("overall streak hit the lookback limit")
	return streak, nil
}

// currentStreak counts consecutive completed occurrence days of a habit,
// walking backwards from today. Days without a visible occurrence are
// skipped. An incomplete today does not break the streak, it just does not
// count yet.
func (s *StatsServiceImpl) currentStreak(ctx context.Context, h habit.Habit) (int, error) {
	today := utils.ToDate(s.clock.Now())
	start := utils.ToDate(h.StartDate)
	streak := 0
	for i := 0; i <= maxStreakLookback; i++ {
		day := today.AddDate(0, 0, -i)
		if day.Before(start) {
			return streak, nil
		}
		completed, occurs, err := s.occurrenceCompleted(ctx, h, day)
		if err != nil {
			return 0, err
		}
		if !occurs {
			continue
		}
		if completed {
			streak++
			continue
		}
		if day.Equal(today) {
			continue
		}
		return streak, nil
	}
	log.Warnf("streak of habit %s hit the lookback limit", h.Id)
	return streak, nil
}

func (s *StatsServiceImpl) occurrenceCompleted(ctx context.Context, h habit.Habit, day time.Time) (completed bool, occurs bool, err error) {
	if !h.OccursOn(day) {
		return false, false, nil
	}
	deleted, err := s.exceptionService.IsDeleted(ctx, h.Id, day)
	if err != nil {
		return false, false, fmt.Errorf("failed to check deletion marker: %w", err)
	}
	if deleted {
		return false, false, nil
	}
	effective := h
	override, err := s.exceptionService.OverrideForDate(ctx, h.Id, day)
	if err != nil {
		return false, false, fmt.Errorf("failed to get override: %w", err)
	}
	if override != nil {
		effective = override.ApplyTo(h)
	}
	record, err := s.progressService.GetProgress(ctx, h.Id, day)
	if err != nil {
		return false, false, fmt.Errorf("failed to get progress: %w", err)
	}
	return isCompleted(effective, record.Amount), true, nil
}
