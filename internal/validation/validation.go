// Package validation holds the structured validation error shared by every
// domain package, independent of any HTTP framework's error envelope.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Reason codes carried by Error.
const (
	ReasonRequired      = "required"
	ReasonInvalid       = "invalid"
	ReasonTooShort      = "too_short"
	ReasonTooLong       = "too_long"
	ReasonMismatch      = "mismatch"
	ReasonTooFewInputs  = "too_few_inputs"
	ReasonUnknownType   = "unknown_type"
	ReasonNotFinite     = "not_finite"
	ReasonInvalidNumber = "invalid_number"
	ReasonWeakPassword  = "weak_password"
)

// Error describes one invalid field.
type Error struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorDetails lets observability.RecordError render the error as a list.
func (e *Error) ErrorDetails() any {
	return []*Error{e}
}

// New returns a single-field validation error.
func New(field, reason, format string, args ...any) *Error {
	return &Error{Field: field, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Errors aggregates several field errors.
type Errors []*Error

func (es Errors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (es Errors) ErrorDetails() any {
	return []*Error(es)
}

// IsValidation reports whether err carries a validation failure.
func IsValidation(err error) bool {
	var single *Error
	var many Errors
	return errors.As(err, &single) || errors.As(err, &many)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct validates s against its `validate` tags and converts failures into
// Errors keyed by JSON field name.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fromFieldError(fe))
	}
	return out
}

func fromFieldError(fe validator.FieldError) *Error {
	field := fieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return New(field, ReasonRequired, "is required")
	case "min":
		return New(field, ReasonTooShort, "must be at least %s characters", fe.Param())
	case "max":
		return New(field, ReasonTooLong, "must be at most %s characters", fe.Param())
	case "eqfield":
		return New(field, ReasonMismatch, "must match %s", strings.ToLower(fe.Param()))
	case "email":
		return New(field, ReasonInvalid, "must be a valid email address")
	default:
		return New(field, ReasonInvalid, "failed %q validation", fe.Tag())
	}
}

// fieldPath drops the top-level struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
