package calculator

import (
	"math"
	"strconv"
	"strings"
)

// Result is the outcome of an operation. Integer is true when the result is
// integer-typed, which only happens for add, subtract, multiply and power
// over integer operands.
type Result struct {
	Value   float64
	Integer bool
}

// String formats the result as plain text: integers without a fraction,
// floats always with one ("3.0"), exponent notation outside [1e-4, 1e16).
func (r Result) String() string {
	v := r.Value
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if r.Integer {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Float returns the result as a float64.
func (r Result) Float() float64 {
	return r.Value
}

// Number returns the result for JSON encoding: int64 for integer results,
// float64 otherwise, nil when the value is not finite.
func (r Result) Number() interface{} {
	switch {
	case math.IsNaN(r.Value) || math.IsInf(r.Value, 0):
		return nil
	case r.Integer && math.Abs(r.Value) < 1<<63:
		return int64(r.Value)
	default:
		return r.Value
	}
}
