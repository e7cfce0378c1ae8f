package user

import (
	"context"
	"errors"
	"testing"

	"go-chi-calculator/internal/testutil"
	"go-chi-calculator/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewTestDB(t, &User{})
	return NewService(NewGormStore(db), bcrypt.MinCost)
}

func validInput() RegisterInput {
	return RegisterInput{
		FirstName:       "Test",
		LastName:        "User",
		Email:           "Test@Example.com",
		Username:        "testuser",
		Password:        "SecurePass123",
		ConfirmPassword: "SecurePass123",
	}
}

func TestRegisterStoresHashedUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "test@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "SecurePass123", u.PasswordHash)

	ok, err := VerifyPassword(u.PasswordHash, "SecurePass123")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "testuser", got.Username)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	dup := validInput()
	dup.Email = "other@example.com"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)

	dup = validInput()
	dup.Username = "someoneelse"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
		reason string
	}{
		{"bad email", func(in *RegisterInput) { in.Email = "nope" }, "email", validation.ReasonInvalid},
		{"short username", func(in *RegisterInput) { in.Username = "ab" }, "username", validation.ReasonTooShort},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "Ab1", "Ab1" }, "password", validation.ReasonTooShort},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "Different123" }, "confirm_password", validation.ReasonMismatch},
		{"weak password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "alllowercase1", "alllowercase1" }, "password", validation.ReasonWeakPassword},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t)
			in := validInput()
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), in)
			require.Error(t, err)
			require.True(t, validation.IsValidation(err), "expected validation error, got %v", err)

			found := false
			var many validation.Errors
			var single *validation.Error
			switch {
			case errors.As(err, &many):
				for _, e := range many {
					if e.Field == tc.field && e.Reason == tc.reason {
						found = true
					}
				}
			case errors.As(err, &single):
				found = single.Field == tc.field && single.Reason == tc.reason
			}
			assert.True(t, found, "expected %s/%s in %v", tc.field, tc.reason, err)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "testuser", "SecurePass123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		require.NotNil(t, u.LastLogin)
	})

	t.Run("by email", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "TEST@example.com", "SecurePass123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "testuser", "WrongPass123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost", "SecurePass123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetUnknownUser(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
