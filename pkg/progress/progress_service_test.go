package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestProgressService(t *testing.T) {
	t.Run("should read zero for an occurrence without a record", func(t *testing.T) {
		// given
		service := NewProgressService(NewStubProgressRepository())

		// when
		record, err := service.GetProgress(testContext(), "habit-1", day("2024-01-03"))

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, record.Amount)
	})

	t.Run("should store and read back an amount", func(t *testing.T) {
		// given
		service := NewProgressService(NewStubProgressRepository())

		// when
		_, err := service.SetProgress(testContext(), Record{HabitId: "habit-1", Date: day("2024-01-03"), Amount: 3})

		// then
		require.NoError(t, err)
		record, err := service.GetProgress(testContext(), "habit-1", day("2024-01-03"))
		require.NoError(t, err)
		assert.Equal(t, 3, record.Amount)
	})

	t.Run("should replace an earlier amount for the same occurrence", func(t *testing.T) {
		// given
		service := NewProgressService(NewStubProgressRepository())
		_, err := service.SetProgress(testContext(), Record{HabitId: "habit-1", Date: day("2024-01-03"), Amount: 3})
		require.NoError(t, err)

		// when
		_, err = service.SetProgress(testContext(), Record{HabitId: "habit-1", Date: day("2024-01-03"), Amount: 5})

		// then
		require.NoError(t, err)
		record, err := service.GetProgress(testContext(), "habit-1", day("2024-01-03"))
		require.NoError(t, err)
		assert.Equal(t, 5, record.Amount)
	})

	t.Run("should keep records of different days independent", func(t *testing.T) {
		// given
		service := NewProgressService(NewStubProgressRepository())
		_, err := service.SetProgress(testContext(), Record{HabitId: "habit-1", Date: day("2024-01-03"), Amount: 3})
		require.NoError(t, err)

		// when
		record, err := service.GetProgress(testContext(), "habit-1", day("2024-01-04"))

		// then
		require.NoError(t, err)
		assert.Equal(t, 0, record.Amount)
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		// given
		service := NewProgressService(NewStubProgressRepository())

		// when
		_, err := service.SetProgress(testContext(), Record{HabitId: "habit-1", Date: day("2024-01-03"), Amount: -1})

		// then
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("should list all amounts of a day", func(t *testing.T) {
		// given
		service := NewProgressService(NewStubProgressRepository())
		_, err := service.SetProgress(testContext(), Record{HabitId: "habit-1", Date: day("2024-01-03"), Amount: 3})
		require.NoError(t, err)
		_, err = service.SetProgress(testContext(), Record{HabitId: "habit-2", Date: day("2024-01-03"), Amount: 1})
		require.NoError(t, err)

		// when
		amounts, err := service.AmountsForDate(testContext(), day("2024-01-03"))

		// then
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"habit-1": 3, "habit-2": 1}, amounts)
	})

	t.Run("should purge all records of a habit", func(t *testing.T) {
		// given
		repo := NewStubProgressRepository()
		service := NewProgressService(repo)
		_, err := service.SetProgress(testContext(), Record{HabitId: "habit-1", Date: day("2024-01-03"), Amount: 3})
		require.NoError(t, err)
		_, err = service.SetProgress(testContext(), Record{HabitId: "habit-1", Date: day("2024-01-05"), Amount: 2})
		require.NoError(t, err)

		// when
		err = service.PurgeHabit(testContext(), "habit-1")

		// then
		require.NoError(t, err)
		record, err := service.GetProgress(testContext(), "habit-1", day("2024-01-03"))
		require.NoError(t, err)
		assert.Equal(t, 0, record.Amount)
	})
}
