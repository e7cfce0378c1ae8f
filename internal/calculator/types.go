package calculator

import (
	"strings"

	"go-chi-calculator/internal/validation"
)

// Type names a calculation.
type Type string

const (
	Addition       Type = "addition"
	Subtraction    Type = "subtraction"
	Multiplication Type = "multiplication"
	Division       Type = "division"
	Exponentiation Type = "exponentiation"
)

// Types lists the supported calculation types in display order.
var Types = []Type{Addition, Subtraction, Multiplication, Division, Exponentiation}

var typeAliases = map[string]Type{
	"addition":       Addition,
	"add":            Addition,
	"subtraction":    Subtraction,
	"subtract":       Subtraction,
	"multiplication": Multiplication,
	"multiply":       Multiplication,
	"division":       Division,
	"divide":         Division,
	"exponentiation": Exponentiation,
	"exponent":       Exponentiation,
	"power":          Exponentiation,
}

// ParseType resolves a canonical or short operation name, ignoring case and
// surrounding whitespace.
func ParseType(s string) (Type, error) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", validation.New("type", validation.ReasonUnknownType, "unknown calculation type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the canonical types.
func (t Type) Valid() bool {
	_, ok := binaryOps[t]
	return ok
}

func (t Type) String() string {
	return string(t)
}

// CalcRequest is the JSON body for binary operations.
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse is the JSON response for the binary operation endpoints.
type CalcResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
}

// ReduceRequest is the JSON body for POST /calculator/reduce.
type ReduceRequest struct {
	Type   string    `json:"type"`
	Inputs []float64 `json:"inputs"`
}

// ReduceResponse is the JSON response for POST /calculator/reduce.
type ReduceResponse struct {
	Type   Type         `json:"type"`
	Inputs []float64    `json:"inputs"`
	Steps  []StepResult `json:"steps"`
	Result float64      `json:"result"`
}

// StepResult records one fold step.
type StepResult struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Result float64 `json:"result"`
}
