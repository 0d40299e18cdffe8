package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmo-app/ritmo/internal/event_bus"
	"github.com/ritmo-app/ritmo/pkg/exception"
	"github.com/ritmo-app/ritmo/pkg/habit"
	"github.com/ritmo-app/ritmo/pkg/progress"
	"github.com/ritmo-app/ritmo/pkg/user"
)

func testContext() context.Context {
	return user.WithUser(context.Background(), user.User{Id: 1, Uid: "uid-1", Username: "test"})
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

type fixture struct {
	habits     habit.Service
	exceptions exception.Service
	progress   progress.Service
	schedule   *ScheduleServiceImpl
	stats      *StatsServiceImpl
}

func newFixture() fixture {
	bus := event_bus.NewEventBus()
	habits := habit.NewHabitService(habit.NewStubHabitRepository(), bus)
	exceptions := exception.NewExceptionService(exception.NewStubExceptionRepository(), habits, bus)
	progressService := progress.NewProgressService(progress.NewStubProgressRepository())
	scheduleService := NewScheduleService(habits, exceptions, progressService)
	statsService := NewStatsService(scheduleService, habits, exceptions, progressService)
	return fixture{
		habits:     habits,
		exceptions: exceptions,
		progress:   progressService,
		schedule:   scheduleService,
		stats:      statsService,
	}
}

func (f fixture) createHabit(t *testing.T, name string, repeatDays []int) habit.Habit {
	t.Helper()
	created, err := f.habits.CreateHabit(testContext(), habit.Habit{
		Name:        name,
		Icon:        "droplets",
		Color:       "#60a5fa",
		GoalAmount:  1,
		GoalUnit:    "times",
		IsAllDay:    true,
		StartDate:   day("2024-01-01"),
		Frequency:   habit.FrequencyWeek,
		RepeatEvery: 1,
		RepeatDays:  repeatDays,
	})
	require.NoError(t, err)
	return created
}

func TestScheduleService_OccurrencesOn(t *testing.T) {
	t.Run("should resolve only habits due on the day", func(t *testing.T) {
		// given
		f := newFixture()
		monday := f.createHabit(t, "Run", []int{1})
		f.createHabit(t, "Swim", []int{2})

		// when
		schedule, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-08")) // Monday

		// then
		require.NoError(t, err)
		require.Len(t, schedule.Occurrences, 1)
		assert.Equal(t, monday.Id, schedule.Occurrences[0].Habit.Id)
	})

	t.Run("should hide occurrences with a deletion marker", func(t *testing.T) {
		// given
		f := newFixture()
		created := f.createHabit(t, "Run", []int{1})
		require.NoError(t, f.exceptions.MarkDeleted(testContext(), created.Id, day("2024-01-08")))

		// when
		deletedDay, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-08"))
		require.NoError(t, err)
		nextWeek, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-15"))
		require.NoError(t, err)

		// then
		assert.Empty(t, deletedDay.Occurrences)
		assert.Len(t, nextWeek.Occurrences, 1)
	})

	t.Run("should apply an override only on its date", func(t *testing.T) {
		// given
		f := newFixture()
		created := f.createHabit(t, "Run", []int{1})
		_, err := f.exceptions.SaveOverride(testContext(), exception.Override{
			HabitId:    created.Id,
			Date:       day("2024-01-08"),
			Name:       strPtr("Long run"),
			GoalAmount: intPtr(2),
		})
		require.NoError(t, err)

		// when
		overriddenDay, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-08"))
		require.NoError(t, err)
		nextWeek, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-15"))
		require.NoError(t, err)

		// then
		require.Len(t, overriddenDay.Occurrences, 1)
		assert.True(t, overriddenDay.Occurrences[0].Overridden)
		assert.Equal(t, "Long run", overriddenDay.Occurrences[0].Habit.Name)
		assert.Equal(t, 2, overriddenDay.Occurrences[0].Habit.GoalAmount)
		require.Len(t, nextWeek.Occurrences, 1)
		assert.False(t, nextWeek.Occurrences[0].Overridden)
		assert.Equal(t, "Run", nextWeek.Occurrences[0].Habit.Name)
	})

	t.Run("should join progress and mark completion", func(t *testing.T) {
		// given
		f := newFixture()
		created, err := f.habits.CreateHabit(testContext(), habit.Habit{
			Name:        "Drink water",
			Icon:        "droplets",
			Color:       "#60a5fa",
			GoalAmount:  8,
			GoalUnit:    "glasses",
			IsAllDay:    true,
			StartDate:   day("2024-01-01"),
			Frequency:   habit.FrequencyDay,
			RepeatEvery: 1,
			RepeatDays:  []int{0, 1, 2, 3, 4, 5, 6},
		})
		require.NoError(t, err)
		_, err = f.progress.SetProgress(testContext(), progress.Record{HabitId: created.Id, Date: day("2024-01-08"), Amount: 8})
		require.NoError(t, err)

		// when
		completedDay, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-08"))
		require.NoError(t, err)
		partialDay, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-09"))
		require.NoError(t, err)

		// then
		require.Len(t, completedDay.Occurrences, 1)
		assert.Equal(t, 8, completedDay.Occurrences[0].Progress)
		assert.True(t, completedDay.Occurrences[0].Completed)
		require.Len(t, partialDay.Occurrences, 1)
		assert.Equal(t, 0, partialDay.Occurrences[0].Progress)
		assert.False(t, partialDay.Occurrences[0].Completed)
	})

	t.Run("should judge completion against the overridden goal", func(t *testing.T) {
		// given
		f := newFixture()
		created, err := f.habits.CreateHabit(testContext(), habit.Habit{
			Name:        "Read",
			Icon:        "book-open",
			Color:       "#60a5fa",
			GoalAmount:  20,
			GoalUnit:    "pages",
			IsAllDay:    true,
			StartDate:   day("2024-01-01"),
			Frequency:   habit.FrequencyDay,
			RepeatEvery: 1,
			RepeatDays:  []int{0, 1, 2, 3, 4, 5, 6},
		})
		require.NoError(t, err)
		_, err = f.exceptions.SaveOverride(testContext(), exception.Override{
			HabitId:    created.Id,
			Date:       day("2024-01-08"),
			GoalAmount: intPtr(5),
		})
		require.NoError(t, err)
		_, err = f.progress.SetProgress(testContext(), progress.Record{HabitId: created.Id, Date: day("2024-01-08"), Amount: 5})
		require.NoError(t, err)

		// when
		schedule, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-08"))

		// then
		require.NoError(t, err)
		require.Len(t, schedule.Occurrences, 1)
		assert.True(t, schedule.Occurrences[0].Completed)
	})

	t.Run("should order all-day habits before timed ones", func(t *testing.T) {
		// given
		f := newFixture()
		everyDay := []int{0, 1, 2, 3, 4, 5, 6}
		_, err := f.habits.CreateHabit(testContext(), habit.Habit{
			Name: "Evening walk", Icon: "footprints", Color: "#fff", GoalAmount: 1, GoalUnit: "times",
			StartTime: "19:00", EndTime: "19:30",
			StartDate: day("2024-01-01"), Frequency: habit.FrequencyWeek, RepeatEvery: 1, RepeatDays: everyDay,
		})
		require.NoError(t, err)
		_, err = f.habits.CreateHabit(testContext(), habit.Habit{
			Name: "Morning walk", Icon: "footprints", Color: "#fff", GoalAmount: 1, GoalUnit: "times",
			StartTime: "07:00", EndTime: "07:30",
			StartDate: day("2024-01-01"), Frequency: habit.FrequencyWeek, RepeatEvery: 1, RepeatDays: everyDay,
		})
		require.NoError(t, err)
		_, err = f.habits.CreateHabit(testContext(), habit.Habit{
			Name: "Vitamins", Icon: "pill", Color: "#fff", GoalAmount: 1, GoalUnit: "times", IsAllDay: true,
			StartDate: day("2024-01-01"), Frequency: habit.FrequencyWeek, RepeatEvery: 1, RepeatDays: everyDay,
		})
		require.NoError(t, err)

		// when
		schedule, err := f.schedule.OccurrencesOn(testContext(), day("2024-01-08"))

		// then
		require.NoError(t, err)
		require.Len(t, schedule.Occurrences, 3)
		assert.Equal(t, "Vitamins", schedule.Occurrences[0].Habit.Name)
		assert.Equal(t, "Morning walk", schedule.Occurrences[1].Habit.Name)
		assert.Equal(t, "Evening walk", schedule.Occurrences[2].Habit.Name)
	})
}

func TestScheduleService_OccurrencesForWeek(t *testing.T) {
	t.Run("should cover the Sunday-based week of the date", func(t *testing.T) {
		// given
		f := newFixture()
		f.createHabit(t, "Run", []int{1, 3})

		// when
		days, err := f.schedule.OccurrencesForWeek(testContext(), day("2024-01-10")) // Wednesday

		// then
		require.NoError(t, err)
		require.Len(t, days, 7)
		assert.Equal(t, day("2024-01-07"), days[0].Date)
		assert.Equal(t, day("2024-01-13"), days[6].Date)
		assert.Empty(t, days[0].Occurrences)
		assert.Len(t, days[1].Occurrences, 1) // Monday
		assert.Len(t, days[3].Occurrences, 1) // Wednesday
	})
}
