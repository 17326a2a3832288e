package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/facility-booking/internal/application"
	"github.com/example/facility-booking/internal/persistence"
	"github.com/example/facility-booking/internal/testfixtures"
)

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("requires administrator", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		_, err := svc.Users.CreateUser(ctx, testfixtures.SeedHelpdesk, testfixtures.NewUserInput())

		assert.ErrorIs(t, err, application.ErrUnauthorized)
		assert.Len(t, svc.Harness.Users.GetAll(ctx), 4)
	})

	t.Run("normalises input and notifies admins", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		input := testfixtures.NewUserInput(
			testfixtures.WithUserName("  Mary Tan "),
			testfixtures.WithUserEmail(" Mary@Example.com"),
			testfixtures.WithUserRole(persistence.RoleHelpdesk),
		)

		user, err := svc.Users.CreateUser(ctx, testfixtures.SeedAdmin, input)
		require.NoError(t, err)

		assert.Equal(t, "Mary Tan", user.Name)
		assert.Equal(t, "mary@example.com", user.Email)
		assert.True(t, user.IsActive)

		notes := svc.Harness.Notifications.GetByUserID(ctx, "1")
		require.Len(t, notes, 1)
		assert.Equal(t, "A new helpdesk account has been created for Mary Tan", notes[0].Message)
	})

	t.Run("emails are unique ignoring case", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		_, err := svc.Users.CreateUser(ctx, testfixtures.SeedAdmin, testfixtures.NewUserInput(testfixtures.WithUserEmail("ADMIN@nrc9.com")))

		assert.ErrorIs(t, err, application.ErrAlreadyExists)
		assert.Empty(t, svc.Harness.Notifications.GetAll(ctx))
	})

	t.Run("validates fields", func(t *testing.T) {
		svc := testfixtures.NewServices(t)
		input := testfixtures.NewUserInput(
			testfixtures.WithUserName(""),
			testfixtures.WithUserEmail("nope"),
			testfixtures.WithUserRole("janitor"),
		)

		_, err := svc.Users.CreateUser(ctx, testfixtures.SeedAdmin, input)

		var vErr *application.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "name")
		assert.Contains(t, vErr.FieldErrors, "email")
		assert.Contains(t, vErr.FieldErrors, "role")
	})
}

func TestUserService_DeactivateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates once and blocks sign in", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		user, err := svc.Users.DeactivateUser(ctx, testfixtures.SeedAdmin, "4")
		require.NoError(t, err)
		assert.False(t, user.IsActive)

		again, err := svc.Users.DeactivateUser(ctx, testfixtures.SeedAdmin, "4")
		require.NoError(t, err)
		assert.False(t, again.IsActive)

		notes := svc.Harness.Notifications.GetByUserID(ctx, "1")
		require.Len(t, notes, 1)
		assert.Equal(t, "User account for John Resident has been deactivated", notes[0].Message)

		_, ok := svc.Auth.Authenticate(ctx, persistence.DefaultSessionKey, "john@resident.com", "pw")
		assert.False(t, ok)
	})

	t.Run("errors", func(t *testing.T) {
		svc := testfixtures.NewServices(t)

		_, err := svc.Users.DeactivateUser(ctx, testfixtures.SeedManager, "4")
		assert.ErrorIs(t, err, application.ErrUnauthorized)

		_, err = svc.Users.DeactivateUser(ctx, testfixtures.SeedAdmin, "missing")
		assert.ErrorIs(t, err, application.ErrNotFound)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	ctx := context.Background()
	svc := testfixtures.NewServices(t)

	users, err := svc.Users.ListUsers(ctx, testfixtures.SeedAdmin)
	require.NoError(t, err)
	assert.Len(t, users, 4)

	_, err = svc.Users.ListUsers(ctx, testfixtures.SeedResident)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
}
