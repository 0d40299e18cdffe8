package habit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmo-app/ritmo/internal/event_bus"
	"github.com/ritmo-app/ritmo/pkg/user"
)

func testContext() context.Context {
	return user.WithUser(context.Background(), user.User{Id: 1, Uid: "uid-1", Username: "test"})
}

func validHabit() Habit {
	return Habit{
		Name:        "Morning run",
		Icon:        "footprints",
		Color:       "#34d399",
		GoalAmount:  1,
		GoalUnit:    "times",
		IsAllDay:    true,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Frequency:   FrequencyWeek,
		RepeatEvery: 1,
		RepeatDays:  []int{1, 3, 5},
	}
}

func TestHabitService_CreateHabit(t *testing.T) {
	repo := NewStubHabitRepository()
	service := NewHabitService(repo, event_bus.NewEventBus())

	t.Run("should assign an id and store the habit", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		habit := validHabit()

		// when
		created, err := service.CreateHabit(testContext(), habit)

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.Id)
		stored, err := repo.GetHabit(testContext(), 1, created.Id)
		require.NoError(t, err)
		assert.Equal(t, "Morning run", stored.Name)
	})

	t.Run("should reject a habit with an empty name", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		habit := validHabit()
		habit.Name = "   "

		// when
		_, err := service.CreateHabit(testContext(), habit)

		// then
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("should reject an unknown icon", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		habit := validHabit()
		habit.Icon = "definitely-not-an-icon"

		// when
		_, err := service.CreateHabit(testContext(), habit)

		// then
		assert.Error(t, err)
	})

	t.Run("should clear times for all-day habits", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		habit := validHabit()
		habit.IsAllDay = true
		habit.StartTime = "07:00"
		habit.EndTime = "08:00"

		// when
		created, err := service.CreateHabit(testContext(), habit)

		// then
		require.NoError(t, err)
		assert.Empty(t, created.StartTime)
		assert.Empty(t, created.EndTime)
	})

	t.Run("should require times for timed habits", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		habit := validHabit()
		habit.IsAllDay = false
		habit.StartTime = "7am"
		habit.EndTime = "08:00"

		// when
		_, err := service.CreateHabit(testContext(), habit)

		// then
		assert.Error(t, err)
	})

	t.Run("should fail without a user in context", func(t *testing.T) {
		defer repo.Cleanup()
		// when
		_, err := service.CreateHabit(context.Background(), validHabit())

		// then
		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestHabitService_UpdateHabit(t *testing.T) {
	repo := NewStubHabitRepository()
	service := NewHabitService(repo, event_bus.NewEventBus())

	t.Run("should update an existing habit", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		created, err := service.CreateHabit(testContext(), validHabit())
		require.NoError(t, err)
		created.Name = "Evening run"

		// when
		updated, err := service.UpdateHabit(testContext(), created)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Evening run", updated.Name)
	})

	t.Run("should return not found for an unknown habit", func(t *testing.T) {
		defer repo.Cleanup()
		// given
		habit := validHabit()
		habit.Id = "missing"

		// when
		_, err := service.UpdateHabit(testContext(), habit)

		// then
		assert.ErrorIs(t, err, ErrHabitNotFound)
	})
}

func TestHabitService_DeleteHabit(t *testing.T) {
	t.Run("should purge dependent records before deleting", func(t *testing.T) {
		// given
		repo := NewStubHabitRepository()
		bus := event_bus.NewEventBus()
		service := NewHabitService(repo, bus)
		created, err := service.CreateHabit(testContext(), validHabit())
		require.NoError(t, err)

		var purged []string
		event_bus.SubscribeTyped(bus, event_bus.HabitDeletedEvent, func(e event_bus.EventT[event_bus.HabitDeleted]) error {
			// the habit row must still exist while handlers run
			_, err := repo.GetHabit(e.Context(), 1, e.Data.HabitId)
			assert.NoError(t, err)
			purged = append(purged, e.Data.HabitId)
			return nil
		})

		// when
		err = service.DeleteHabit(testContext(), created.Id)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{created.Id}, purged)
		_, err = repo.GetHabit(testContext(), 1, created.Id)
		assert.ErrorIs(t, err, ErrHabitNotFound)
	})

	t.Run("should keep the habit when a purge handler fails", func(t *testing.T) {
		// given
		repo := NewStubHabitRepository()
		bus := event_bus.NewEventBus()
		service := NewHabitService(repo, bus)
		created, err := service.CreateHabit(testContext(), validHabit())
		require.NoError(t, err)

		event_bus.SubscribeTyped(bus, event_bus.HabitDeletedEvent, func(e event_bus.EventT[event_bus.HabitDeleted]) error {
			return assert.AnError
		})

		// when
		err = service.DeleteHabit(testContext(), created.Id)

		// then
		assert.Error(t, err)
		_, err = repo.GetHabit(testContext(), 1, created.Id)
		assert.NoError(t, err)
	})

	t.Run("should return not found for an unknown habit", func(t *testing.T) {
		// given
		service := NewHabitService(NewStubHabitRepository(), event_bus.NewEventBus())

		// when
		err := service.DeleteHabit(testContext(), "missing")

		// then
		assert.ErrorIs(t, err, ErrHabitNotFound)
	})
}
