package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go-chi-calculator/internal/validation"
)

// ParseInputs converts comma-separated text such as "5, 10,15" into numbers.
// Empty entries are skipped so a trailing comma is tolerated. An invalid entry
// is reported by its position in text, empty entries included.
func ParseInputs(text string) ([]float64, error) {
	fields := strings.Split(text, ",")
	out := make([]float64, 0, len(fields))

	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, validation.New(fmt.Sprintf("inputs[%d]", i), validation.ReasonInvalidNumber, "%q is not a valid number", f)
		}
		out = append(out, v)
	}

	if len(out) < MinInputs {
		return nil, validation.New("inputs", validation.ReasonTooFewInputs, "at least %d numbers are required, got %d", MinInputs, len(out))
	}
	return out, nil
}

// FormatInputs renders inputs back into the comma-separated form ParseInputs reads.
func FormatInputs(inputs []float64) string {
	parts := make([]string, len(inputs))
	for i, v := range inputs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
