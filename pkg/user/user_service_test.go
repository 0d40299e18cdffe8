package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateUser(t *testing.T) {
	t.Run("should assign a uid and default timezone", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())

		// when
		created, err := service.CreateUser(context.Background(), User{
			Username:    "anna",
			DisplayName: "Anna",
		})

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, "UTC", created.Settings.Timezone)
		assert.NotZero(t, created.Id)
	})

	t.Run("should keep a provided timezone", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())

		// when
		created, err := service.CreateUser(context.Background(), User{
			Username: "anna",
			Settings: Settings{Timezone: "Europe/Warsaw"},
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Europe/Warsaw", created.Settings.Timezone)
	})
}

func TestUserService_GetCurrentUser(t *testing.T) {
	t.Run("should return the user from the request context", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())
		created, err := service.CreateUser(context.Background(), User{Username: "anna"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)

		// when
		current, err := service.GetCurrentUser(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, created.Id, current.Id)
		assert.Equal(t, "anna", current.Username)
	})

	t.Run("should fail without a user in context", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())

		// when
		_, err := service.GetCurrentUser(context.Background())

		// then
		assert.Error(t, err)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Run("should delete a user by uid", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())
		created, err := service.CreateUser(context.Background(), User{Username: "anna"})
		require.NoError(t, err)

		// when
		err = service.DeleteUser(context.Background(), created.Uid)

		// then
		require.NoError(t, err)
		_, err = service.GetUserByUid(context.Background(), created.Uid)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("should report an unknown uid", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())

		// when
		err := service.DeleteUser(context.Background(), "missing")

		// then
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_IsUsernameAvailable(t *testing.T) {
	t.Run("should report a taken username", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())
		_, err := service.CreateUser(context.Background(), User{Username: "anna"})
		require.NoError(t, err)

		// when
		available, err := service.IsUsernameAvailable(context.Background(), "anna")

		// then
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("should report a free username", func(t *testing.T) {
		// given
		service := NewUserService(NewStubUserRepository())

		// when
		available, err := service.IsUsernameAvailable(context.Background(), "anna")

		// then
		require.NoError(t, err)
		assert.True(t, available)
	})
}
