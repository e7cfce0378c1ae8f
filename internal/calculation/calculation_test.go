package calculation

import (
	"errors"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComputesResult(t *testing.T) {
	owner := uuid.New()
	inputs := []float64{5, 10, 15}

	c, err := New(owner, calculator.Addition, inputs)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, owner, c.UserID)
	assert.Equal(t, calculator.Addition, c.Type)
	assert.Equal(t, 30.0, c.Result)

	inputs[0] = 100
	assert.Equal(t, 5.0, c.Inputs[0], "record must not alias the caller's slice")
}

func TestNewRejectsBadInput(t *testing.T) {
	owner := uuid.New()

	_, err := New(owner, calculator.Addition, []float64{5})
	assert.True(t, validation.IsValidation(err))

	_, err = New(owner, calculator.Type("modulo"), []float64{1, 2})
	assert.True(t, validation.IsValidation(err))

	_, err = New(owner, calculator.Division, []float64{100, 0})
	var compErr *calculator.ComputationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, calculator.DivisionByZeroMessage, compErr.Error())
}

func TestSetInputsKeepsTypeAndOwner(t *testing.T) {
	owner := uuid.New()
	c, err := New(owner, calculator.Addition, []float64{1, 2})
	require.NoError(t, err)

	require.NoError(t, c.SetInputs([]float64{20, 30, 40}))
	assert.Equal(t, 90.0, c.Result)
	assert.Equal(t, calculator.Addition, c.Type)
	assert.Equal(t, owner, c.UserID)
}

func TestSetInputsFailureLeavesRecordUnchanged(t *testing.T) {
	c, err := New(uuid.New(), calculator.Division, []float64{100, 2})
	require.NoError(t, err)

	err = c.SetInputs([]float64{1, 0})
	require.ErrorIs(t, err, calculator.ErrDivisionByZero)
	assert.Equal(t, []float64{100, 2}, []float64(c.Inputs))
	assert.Equal(t, 50.0, c.Result)
}

func TestAuthorizeFor(t *testing.T) {
	owner := uuid.New()
	c, err := New(owner, calculator.Multiplication, []float64{2, 3})
	require.NoError(t, err)

	assert.NoError(t, c.AuthorizeFor(owner))
	assert.ErrorIs(t, c.AuthorizeFor(uuid.New()), ErrForbidden)
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Limit: DefaultPageSize}, Page{}.Normalize())
	assert.Equal(t, Page{Limit: MaxPageSize, Offset: 0}, Page{Limit: 1000, Offset: -4}.Normalize())
	assert.Equal(t, Page{Limit: 10, Offset: 20}, Page{Limit: 10, Offset: 20}.Normalize())
}
