package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmo-app/ritmo/internal/utils"
	"github.com/ritmo-app/ritmo/pkg/exception"
	"github.com/ritmo-app/ritmo/pkg/progress"
)

func newStatsFixture(today string) fixture {
	f := newFixture()
	f.stats.clock = &utils.MockClock{FixedNow: day(today)}
	return f
}

func (f fixture) logProgress(t *testing.T, habitId string, date string, amount int) {
	t.Helper()
	_, err := f.progress.SetProgress(testContext(), progress.Record{HabitId: habitId, Date: day(date), Amount: amount})
	require.NoError(t, err)
}

func TestStatsService_WeeklyStats(t *testing.T) {
	t.Run("should aggregate scheduled and completed per day and habit", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-13")
		run := f.createHabit(t, "Run", []int{1, 3, 5}) // Mon Wed Fri
		swim := f.createHabit(t, "Swim", []int{2})     // Tue
		f.logProgress(t, run.Id, "2024-01-08", 1)
		f.logProgress(t, run.Id, "2024-01-10", 1)
		f.logProgress(t, swim.Id, "2024-01-09", 1)

		// when
		summary, err := f.stats.WeeklyStats(testContext(), day("2024-01-10"))

		// then
		require.NoError(t, err)
		assert.Equal(t, day("2024-01-07"), summary.StartDate)
		assert.Equal(t, day("2024-01-13"), summary.EndDate)
		assert.Equal(t, 4, summary.Scheduled)
		assert.Equal(t, 3, summary.Completed)
		assert.InDelta(t, 0.75, summary.CompletionRate, 0.0001)

		require.Len(t, summary.Days, 7)
		assert.Equal(t, 0, summary.Days[0].Scheduled) // Sunday
		assert.Equal(t, 1, summary.Days[1].Scheduled) // Monday
		assert.Equal(t, 1, summary.Days[1].Completed)
		assert.Equal(t, 1, summary.Days[5].Scheduled) // Friday
		assert.Equal(t, 0, summary.Days[5].Completed)

		require.Len(t, summary.Habits, 2)
		byName := map[string]HabitStats{}
		for _, habitStats := range summary.Habits {
			byName[habitStats.Habit.Name] = habitStats
		}
		assert.Equal(t, 3, byName["Run"].Scheduled)
		assert.Equal(t, 2, byName["Run"].Completed)
		assert.Equal(t, 1, byName["Swim"].Scheduled)
		assert.Equal(t, 1, byName["Swim"].Completed)
	})

	t.Run("should count the overall streak across habits", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-10") // Wednesday
		run := f.createHabit(t, "Run", []int{1, 3, 5})
		swim := f.createHabit(t, "Swim", []int{2})
		f.logProgress(t, run.Id, "2024-01-05", 1)
		f.logProgress(t, run.Id, "2024-01-08", 1)
		f.logProgress(t, swim.Id, "2024-01-09", 1)
		f.logProgress(t, run.Id, "2024-01-10", 1)
		// Wednesday 2024-01-03 was missed, which bounds the run

		// when
		summary, err := f.stats.WeeklyStats(testContext(), day("2024-01-10"))

		// then
		require.NoError(t, err)
		assert.Equal(t, 4, summary.Streak)
	})

	t.Run("should not break the overall streak on an incomplete today", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-10") // Wednesday, nothing logged yet today
		run := f.createHabit(t, "Run", []int{1, 3, 5})
		f.logProgress(t, run.Id, "2024-01-05", 1)
		f.logProgress(t, run.Id, "2024-01-08", 1)

		// when
		summary, err := f.stats.WeeklyStats(testContext(), day("2024-01-10"))

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Streak)
	})

	t.Run("should report a zero rate for a week without occurrences", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-13")

		// when
		summary, err := f.stats.WeeklyStats(testContext(), day("2024-01-10"))

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Scheduled)
		assert.Equal(t, 0.0, summary.CompletionRate)
		assert.Empty(t, summary.Habits)
	})
}

func TestStatsService_CurrentStreak(t *testing.T) {
	t.Run("should count consecutive completed occurrence days", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-10") // Wednesday
		run := f.createHabit(t, "Run", []int{1, 3, 5})
		f.logProgress(t, run.Id, "2024-01-05", 1) // Friday
		f.logProgress(t, run.Id, "2024-01-08", 1) // Monday
		f.logProgress(t, run.Id, "2024-01-10", 1) // Wednesday, today

		// when
		streak, err := f.stats.currentStreak(testContext(), run)

		// then
		require.NoError(t, err)
		assert.Equal(t, 3, streak)
	})

	t.Run("should skip days the habit is not scheduled on", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-09") // Tuesday, no occurrence
		run := f.createHabit(t, "Run", []int{1, 3, 5})
		f.logProgress(t, run.Id, "2024-01-05", 1)
		f.logProgress(t, run.Id, "2024-01-08", 1)

		// when
		streak, err := f.stats.currentStreak(testContext(), run)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, streak)
	})

	t.Run("should not break on an incomplete today", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-10") // Wednesday, nothing logged yet
		run := f.createHabit(t, "Run", []int{1, 3, 5})
		f.logProgress(t, run.Id, "2024-01-05", 1)
		f.logProgress(t, run.Id, "2024-01-08", 1)

		// when
		streak, err := f.stats.currentStreak(testContext(), run)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, streak)
	})

	t.Run("should break on an earlier missed occurrence", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-10")
		run := f.createHabit(t, "Run", []int{1, 3, 5})
		f.logProgress(t, run.Id, "2024-01-05", 1)
		// Monday 2024-01-08 missed
		f.logProgress(t, run.Id, "2024-01-10", 1)

		// when
		streak, err := f.stats.currentStreak(testContext(), run)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, streak)
	})

	t.Run("should skip occurrences hidden by a deletion marker", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-10")
		run := f.createHabit(t, "Run", []int{1, 3, 5})
		f.logProgress(t, run.Id, "2024-01-05", 1)
		require.NoError(t, f.exceptions.MarkDeleted(testContext(), run.Id, day("2024-01-08")))
		f.logProgress(t, run.Id, "2024-01-10", 1)

		// when
		streak, err := f.stats.currentStreak(testContext(), run)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, streak)
	})

	t.Run("should stop at the habit's start date", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-02")
		everyDay := []int{0, 1, 2, 3, 4, 5, 6}
		run := f.createHabit(t, "Run", everyDay)
		f.logProgress(t, run.Id, "2024-01-01", 1)
		f.logProgress(t, run.Id, "2024-01-02", 1)

		// when
		streak, err := f.stats.currentStreak(testContext(), run)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, streak)
	})

	t.Run("should be zero for a habit never completed", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-10")
		run := f.createHabit(t, "Run", []int{1, 3, 5})

		// when
		streak, err := f.stats.currentStreak(testContext(), run)

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, streak)
	})

	t.Run("should judge completion against the overridden goal", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-08")
		run := f.createHabit(t, "Run", []int{1, 3, 5})
		_, err := f.exceptions.SaveOverride(testContext(), exception.Override{
			HabitId:    run.Id,
			Date:       day("2024-01-08"),
			GoalAmount: intPtr(3),
		})
		require.NoError(t, err)
		f.logProgress(t, run.Id, "2024-01-08", 3)

		// when
		streak, err := f.stats.currentStreak(testContext(), run)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, streak)
	})
}

func TestCsvWeekRenderer(t *testing.T) {
	t.Run("should render one column per habit and one row per day", func(t *testing.T) {
		// given
		f := newStatsFixture("2024-01-13")
		run := f.createHabit(t, "Run", []int{1, 3})
		f.logProgress(t, run.Id, "2024-01-08", 1)
		summary, err := f.stats.WeeklyStats(testContext(), day("2024-01-10"))
		require.NoError(t, err)
		days, err := f.schedule.OccurrencesForWeek(testContext(), day("2024-01-10"))
		require.NoError(t, err)
		renderer := NewCsvWeekRenderer()

		// when
		csv, err := renderer.RenderWeek(summary, days)

		// then
		require.NoError(t, err)
		expected := ",Run,SUM\n" +
			"07/01/2024,,0/0\n" +
			"08/01/2024,1/1,1/1\n" +
			"09/01/2024,,0/0\n" +
			"10/01/2024,0/1,0/1\n" +
			"11/01/2024,,0/0\n" +
			"12/01/2024,,0/0\n" +
			"13/01/2024,,0/0\n" +
			"Total,1/2,1/2\n" +
			"Streak,0,0\n"
		assert.Equal(t, expected, csv)
	})
}
