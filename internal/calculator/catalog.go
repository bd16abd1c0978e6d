package calculator

import (
	"fmt"
	"slices"
	"strings"
)

// Operation names.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
	OpPower    = "power"
	OpSqrt     = "sqrt"
	OpLog10    = "log10"
)

// Parameter describes one operand of an operation.
type Parameter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Operation describes a catalog entry.
type Operation struct {
	Name        string      `json:"name"`
	Aliases     []string    `json:"aliases,omitempty"`
	Description string      `json:"description"`
	Arity       int         `json:"arity"`
	Parameters  []Parameter `json:"parameters"`
	Restricted  bool        `json:"restricted"`
}

var catalog = []Operation{
	{
		Name:        OpAdd,
		Description: "Add two numbers",
		Arity:       2,
		Parameters: []Parameter{
			{Name: "x", Description: "First number"},
			{Name: "y", Description: "Second number"},
		},
	},
	{
		Name:        OpSubtract,
		Aliases:     []string{"substract"},
		Description: "Subtract y from x",
		Arity:       2,
		Parameters: []Parameter{
			{Name: "x", Description: "Minuend"},
			{Name: "y", Description: "Subtrahend"},
		},
	},
	{
		Name:        OpMultiply,
		Description: "Multiply two numbers (requires permission)",
		Arity:       2,
		Parameters: []Parameter{
			{Name: "x", Description: "First factor"},
			{Name: "y", Description: "Second factor"},
		},
		Restricted: true,
	},
	{
		Name:        OpDivide,
		Description: "Divide x by y",
		Arity:       2,
		Parameters: []Parameter{
			{Name: "x", Description: "Dividend"},
			{Name: "y", Description: "Divisor, must not be zero"},
		},
	},
	{
		Name:        OpPower,
		Description: "Raise x to the power of y",
		Arity:       2,
		Parameters: []Parameter{
			{Name: "x", Description: "Base"},
			{Name: "y", Description: "Exponent"},
		},
	},
	{
		Name:        OpSqrt,
		Description: "Square root of x",
		Arity:       1,
		Parameters: []Parameter{
			{Name: "x", Description: "Non-negative number"},
		},
	},
	{
		Name:        OpLog10,
		Description: "Base-10 logarithm of x",
		Arity:       1,
		Parameters: []Parameter{
			{Name: "x", Description: "Positive number"},
		},
	},
}

// Operations returns a copy of the operation catalog.
func Operations() []Operation {
	ops := make([]Operation, len(catalog))
	for i, op := range catalog {
		ops[i] = op.clone()
	}
	return ops
}

func (op Operation) clone() Operation {
	op.Aliases = slices.Clone(op.Aliases)
	op.Parameters = slices.Clone(op.Parameters)
	return op
}

// Lookup resolves an operation by name or alias, case-insensitively.
func Lookup(name string) (Operation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, op := range catalog {
		if op.Name == name || slices.Contains(op.Aliases, name) {
			return op.clone(), nil
		}
	}
	return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
}
