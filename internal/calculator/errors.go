package calculator

import "errors"

// DivisionByZeroMessage is the message every division-by-zero failure carries.
const DivisionByZeroMessage = "Cannot divide by zero!"

// Causes wrapped by ComputationError.
var (
	ErrDivisionByZero = errors.New(DivisionByZeroMessage)
	ErrNotReal        = errors.New("result is not a real number")
	ErrOverflow       = errors.New("result is out of range")
	ErrUndefined      = errors.New("result is undefined")
)

// ComputationError is returned when an operation has valid operands but no
// finite real result.
type ComputationError struct {
	Op      Type
	Message string
	Err     error
}

func (e *ComputationError) Error() string {
	return e.Message
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

func computationError(op Type, cause error, msg string) *ComputationError {
	return &ComputationError{Op: op, Message: msg, Err: cause}
}
