package calculator

import (
	"fmt"
	"math"

	"go-chi-calculator/internal/validation"
)

// MinInputs is the smallest sequence Reduce accepts.
const MinInputs = 2

// BinaryOp is a two-operand calculator operation.
type BinaryOp func(a, b float64) (float64, error)

var binaryOps = map[Type]BinaryOp{
	Addition:       finite(Addition, Add),
	Subtraction:    finite(Subtraction, Subtract),
	Multiplication: finite(Multiplication, Multiply),
	Division:       Divide,
	Exponentiation: Exponent,
}

// finite adapts f to BinaryOp, rejecting results that overflow to ±Inf.
func finite(op Type, f func(a, b float64) float64) BinaryOp {
	return func(a, b float64) (float64, error) {
		return checkFinite(op, f(a, b))
	}
}

func checkFinite(op Type, result float64) (float64, error) {
	if math.IsInf(result, 0) {
		return 0, computationError(op, ErrOverflow, "Result is too large!")
	}
	if math.IsNaN(result) {
		return 0, computationError(op, ErrNotReal, "Result is not a real number!")
	}
	return result, nil
}

func Add(a, b float64) float64 {
	return a + b
}

func Subtract(a, b float64) float64 {
	return a - b
}

func Multiply(a, b float64) float64 {
	return a * b
}

// Divide returns a / b. A zero divisor yields a ComputationError wrapping
// ErrDivisionByZero rather than Inf or NaN; a quotient that overflows wraps
// ErrOverflow.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, computationError(Division, ErrDivisionByZero, DivisionByZeroMessage)
	}
	return checkFinite(Division, a/b)
}

// Exponent returns a raised to the power b. x**0 is 1 for every x, 0**0
// included. Results that are not finite real numbers are errors.
func Exponent(a, b float64) (float64, error) {
	if b == 0 {
		return 1, nil
	}
	if a == 0 && b < 0 {
		return 0, computationError(Exponentiation, ErrUndefined, "Cannot raise zero to a negative power!")
	}
	if a < 0 && b != math.Trunc(b) {
		return 0, computationError(Exponentiation, ErrNotReal, "Cannot raise a negative number to a fractional power!")
	}

	return checkFinite(Exponentiation, math.Pow(a, b))
}

// Lookup returns the binary operation for t.
func Lookup(t Type) (BinaryOp, error) {
	op, ok := binaryOps[t]
	if !ok {
		return nil, validation.New("type", validation.ReasonUnknownType, "unknown calculation type %q", string(t))
	}
	return op, nil
}

// Validate checks that t is known and inputs holds at least MinInputs finite
// numbers.
func Validate(t Type, inputs []float64) error {
	if !t.Valid() {
		return validation.New("type", validation.ReasonUnknownType, "unknown calculation type %q", string(t))
	}
	if len(inputs) < MinInputs {
		return validation.New("inputs", validation.ReasonTooFewInputs, "at least %d numbers are required, got %d", MinInputs, len(inputs))
	}
	for i, v := range inputs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validation.New(fmt.Sprintf("inputs[%d]", i), validation.ReasonNotFinite, "must be a finite number")
		}
	}
	return nil
}

// Reduce folds the operation named by t across inputs from left to right:
// Reduce(Addition, [5 10 15]) is (5+10)+15.
func Reduce(t Type, inputs []float64) (float64, error) {
	if err := Validate(t, inputs); err != nil {
		return 0, err
	}

	op := binaryOps[t]
	acc := inputs[0]
	for _, v := range inputs[1:] {
		next, err := op(acc, v)
		if err != nil {
			return 0, err
		}
		acc = next
	}
	return acc, nil
}
