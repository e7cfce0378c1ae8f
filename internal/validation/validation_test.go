package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=10"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func TestStructValid(t *testing.T) {
	err := Struct(signup{Email: "a@b.io", Username: "alice", Password: "x", ConfirmPassword: "x"})
	assert.NoError(t, err)
}

func TestStructMapsFieldErrorsToJSONNames(t *testing.T) {
	err := Struct(signup{Email: "nope", Username: "al", Password: "x", ConfirmPassword: "y"})
	require.Error(t, err)

	var errs Errors
	require.True(t, errors.As(err, &errs))

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Reason
	}

	assert.Equal(t, ReasonInvalid, byField["email"])
	assert.Equal(t, ReasonTooShort, byField["username"])
	assert.Equal(t, ReasonMismatch, byField["confirm_password"])
	assert.NotContains(t, byField, "password")
}

func TestIsValidation(t *testing.T) {
	single := New("inputs", ReasonTooFewInputs, "need at least %d numbers", 2)

	assert.True(t, IsValidation(single))
	assert.True(t, IsValidation(fmt.Errorf("wrapped: %w", single)))
	assert.True(t, IsValidation(Errors{single}))
	assert.False(t, IsValidation(errors.New("boom")))

	assert.Equal(t, "inputs: need at least 2 numbers", single.Error())
}

func TestErrorDetails(t *testing.T) {
	e := New("type", ReasonUnknownType, "unknown calculation type %q", "modulo")

	details, ok := e.ErrorDetails().([]*Error)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "type", details[0].Field)
}
