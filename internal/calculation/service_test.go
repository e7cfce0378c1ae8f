package calculation

import (
	"context"
	"testing"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/testutil"
	"go-chi-calculator/internal/validation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewTestDB(t, &Calculation{})
	return NewService(NewGormStore(db))
}

func TestCreateThenGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	tests := []struct {
		typ    calculator.Type
		inputs []float64
	}{
		{calculator.Addition, []float64{5, 10, 15}},
		{calculator.Subtraction, []float64{100, 30, 20}},
		{calculator.Multiplication, []float64{2, 3, 4}},
		{calculator.Division, []float64{100, 2, 5}},
		{calculator.Exponentiation, []float64{2, 3, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			created, err := svc.Create(ctx, owner, tc.typ, tc.inputs)
			require.NoError(t, err)

			want, err := calculator.Reduce(tc.typ, tc.inputs)
			require.NoError(t, err)

			got, err := svc.Get(ctx, owner, created.ID)
			require.NoError(t, err)
			assert.Equal(t, want, got.Result)
			assert.Equal(t, tc.typ, got.Type)
			assert.Equal(t, tc.inputs, []float64(got.Inputs))
			assert.Equal(t, owner, got.UserID)
		})
	}
}

func TestCreateDivisionByZeroPersistsNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Create(ctx, owner, calculator.Division, []float64{100, 0})
	require.ErrorIs(t, err, calculator.ErrDivisionByZero)

	_, total, err := svc.List(ctx, owner, Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateOverflowPersistsNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	for _, tc := range []struct {
		typ    calculator.Type
		inputs []float64
	}{
		{calculator.Addition, []float64{1.7e308, 1.7e308}},
		{calculator.Subtraction, []float64{-1.7e308, 1.7e308}},
		{calculator.Multiplication, []float64{1e308, 10}},
		{calculator.Division, []float64{1e308, 1e-10}},
	} {
		_, err := svc.Create(ctx, owner, tc.typ, tc.inputs)
		require.ErrorIs(t, err, calculator.ErrOverflow, tc.typ.String())
	}

	_, total, err := svc.List(ctx, owner, Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateOverflowLeavesStoredRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	c, err := svc.Create(ctx, owner, calculator.Multiplication, []float64{2, 3})
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, c.ID, []float64{1e308, 10})
	require.ErrorIs(t, err, calculator.ErrOverflow)

	got, err := svc.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.Result)
}

func TestUpdateRecomputes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	c, err := svc.Create(ctx, owner, calculator.Addition, []float64{1, 2})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, c.ID, []float64{20, 30, 40})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.Result)

	got, err := svc.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Result)
	assert.Equal(t, calculator.Addition, got.Type)
	assert.Equal(t, owner, got.UserID)
	assert.Equal(t, []float64{20, 30, 40}, []float64(got.Inputs))
}

func TestUpdateRejectedLeavesStoredRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	c, err := svc.Create(ctx, owner, calculator.Division, []float64{100, 4})
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, c.ID, []float64{1, 0})
	require.ErrorIs(t, err, calculator.ErrDivisionByZero)

	_, err = svc.Update(ctx, owner, c.ID, []float64{1})
	require.True(t, validation.IsValidation(err))

	got, err := svc.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Result)
}

func TestDeleteTwice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	c, err := svc.Create(ctx, owner, calculator.Addition, []float64{1, 2})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, c.ID))
	assert.ErrorIs(t, svc.Delete(ctx, owner, c.ID), ErrNotFound)

	_, err = svc.Get(ctx, owner, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForeignOwnerIsRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	c, err := svc.Create(ctx, owner, calculator.Addition, []float64{1, 2})
	require.NoError(t, err)

	_, err = svc.Get(ctx, intruder, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Update(ctx, intruder, c.ID, []float64{3, 4})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, intruder, c.ID), ErrForbidden)

	got, err := svc.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.Result)
}

func TestListIsScopedAndPaged(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	for i := range 5 {
		_, err := svc.Create(ctx, owner, calculator.Addition, []float64{float64(i), 1})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, other, calculator.Addition, []float64{1, 1})
	require.NoError(t, err)

	calcs, total, err := svc.List(ctx, owner, Page{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, calcs, 2)
	for _, c := range calcs {
		assert.Equal(t, owner, c.UserID)
	}

	_, total, err = svc.List(ctx, uuid.New(), Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
}
