package calculator

import (
	"fmt"
	"strconv"
	"strings"
)

// number is a validated operand. integer is true for Go integer kinds.
type number struct {
	value   float64
	integer bool
}

// toNumber extracts a number from an operand with type coercion.
// Booleans are not numbers.
func toNumber(v interface{}) (number, bool) {
	switch n := v.(type) {
	case float64:
		return number{value: n}, true
	case float32:
		return number{value: float64(n)}, true
	case int:
		return number{value: float64(n), integer: true}, true
	case int8:
		return number{value: float64(n), integer: true}, true
	case int16:
		return number{value: float64(n), integer: true}, true
	case int32:
		return number{value: float64(n), integer: true}, true
	case int64:
		return number{value: float64(n), integer: true}, true
	case uint:
		return number{value: float64(n), integer: true}, true
	case uint8:
		return number{value: float64(n), integer: true}, true
	case uint16:
		return number{value: float64(n), integer: true}, true
	case uint32:
		return number{value: float64(n), integer: true}, true
	case uint64:
		return number{value: float64(n), integer: true}, true
	default:
		return number{}, false
	}
}

// toNumbers validates two operands together.
func toNumbers(x, y interface{}) (number, number, bool) {
	a, okA := toNumber(x)
	b, okB := toNumber(y)
	if !okA || !okB {
		return number{}, number{}, false
	}
	return a, b, true
}

// IsNumeric reports whether v is accepted as an operand.
func IsNumeric(v interface{}) bool {
	_, ok := toNumber(v)
	return ok
}

// ParseOperand converts text into an operand: an int64 when s is a base-10
// integer, otherwise a float64.
func ParseOperand(s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidOperand, s)
}

// ParseOperands parses every element of args with ParseOperand.
func ParseOperands(args []string) ([]interface{}, error) {
	operands := make([]interface{}, 0, len(args))
	for _, arg := range args {
		v, err := ParseOperand(arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, v)
	}
	return operands, nil
}

// describe renders an operand the way it appears in permission requests.
func describe(v interface{}) string {
	if n, ok := toNumber(v); ok {
		return Result{Value: n.value, Integer: n.integer}.String()
	}
	return fmt.Sprint(v)
}
