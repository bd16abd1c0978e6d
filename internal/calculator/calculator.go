package calculator

import (
	"context"
	"fmt"
	gomath "math"
)

// DefaultUser is the identity multiply asks permission for unless WithUser is given.
const DefaultUser = "user1"

// PermissionChecker decides whether user may perform the described operation.
type PermissionChecker interface {
	Allowed(ctx context.Context, operation, user string) (bool, error)
}

// PermissionFunc adapts a plain function to PermissionChecker.
type PermissionFunc func(ctx context.Context, operation, user string) (bool, error)

// Allowed calls f.
func (f PermissionFunc) Allowed(ctx context.Context, operation, user string) (bool, error) {
	return f(ctx, operation, user)
}

// Calculator performs one arithmetic operation per call. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	permissions PermissionChecker
	user        string
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithUser sets the identity used for permission checks.
func WithUser(user string) Option {
	return func(c *Calculator) {
		if user != "" {
			c.user = user
		}
	}
}

// New creates a calculator that consults checker before multiplying.
// A nil checker denies every multiplication.
func New(checker PermissionChecker, opts ...Option) *Calculator {
	c := &Calculator{
		permissions: checker,
		user:        DefaultUser,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// User returns the identity used for permission checks.
func (c *Calculator) User() string {
	return c.user
}

// Add returns x + y.
func (c *Calculator) Add(ctx context.Context, x, y interface{}) (Result, error) {
	a, b, ok := toNumbers(x, y)
	if !ok {
		return Result{}, operandError(OpAdd)
	}
	return Result{Value: a.value + b.value, Integer: a.integer && b.integer}, nil
}

// Subtract returns x - y.
func (c *Calculator) Subtract(ctx context.Context, x, y interface{}) (Result, error) {
	a, b, ok := toNumbers(x, y)
	if !ok {
		return Result{}, operandError(OpSubtract)
	}
	return Result{Value: a.value - b.value, Integer: a.integer && b.integer}, nil
}

// Multiply returns x * y. The permission check runs before operand
// validation, so a refused request never reports a type error.
func (c *Calculator) Multiply(ctx context.Context, x, y interface{}) (Result, error) {
	if err := c.authorize(ctx, fmt.Sprintf("%s * %s", describe(x), describe(y))); err != nil {
		return Result{}, err
	}

	a, b, ok := toNumbers(x, y)
	if !ok {
		return Result{}, operandError(OpMultiply)
	}
	return Result{Value: a.value * b.value, Integer: a.integer && b.integer}, nil
}

// Divide returns x / y as a float.
func (c *Calculator) Divide(ctx context.Context, x, y interface{}) (Result, error) {
	a, b, ok := toNumbers(x, y)
	if !ok {
		return Result{}, operandError(OpDivide)
	}
	if b.value == 0 {
		return Result{}, domainError(OpDivide, "division by zero is not possible")
	}
	return Result{Value: a.value / b.value}, nil
}

// Power returns x ** y. Integer operands with a non-negative exponent give
// an integer result.
func (c *Calculator) Power(ctx context.Context, x, y interface{}) (Result, error) {
	a, b, ok := toNumbers(x, y)
	if !ok {
		return Result{}, operandError(OpPower)
	}
	return Result{
		Value:   gomath.Pow(a.value, b.value),
		Integer: a.integer && b.integer && b.value >= 0,
	}, nil
}

// Sqrt returns the non-negative square root of x.
func (c *Calculator) Sqrt(ctx context.Context, x interface{}) (Result, error) {
	a, ok := toNumber(x)
	if !ok {
		return Result{}, operandError(OpSqrt)
	}
	if a.value < 0 {
		return Result{}, domainError(OpSqrt, "cannot calculate square root of a negative number")
	}
	return Result{Value: gomath.Sqrt(a.value)}, nil
}

// Log10 returns the base-10 logarithm of x.
func (c *Calculator) Log10(ctx context.Context, x interface{}) (Result, error) {
	a, ok := toNumber(x)
	if !ok {
		return Result{}, operandError(OpLog10)
	}
	if a.value <= 0 {
		return Result{}, domainError(OpLog10, "cannot calculate logarithm of a non-positive number")
	}
	return Result{Value: gomath.Log10(a.value)}, nil
}

// Apply runs the named operation (or alias) over operands.
func (c *Calculator) Apply(ctx context.Context, name string, operands ...interface{}) (Result, error) {
	op, err := Lookup(name)
	if err != nil {
		return Result{}, err
	}
	if len(operands) != op.Arity {
		return Result{}, &OperationError{
			Op:  op.Name,
			Err: fmt.Errorf("%w: want %d, got %d", ErrArity, op.Arity, len(operands)),
		}
	}

	switch op.Name {
	case OpAdd:
		return c.Add(ctx, operands[0], operands[1])
	case OpSubtract:
		return c.Subtract(ctx, operands[0], operands[1])
	case OpMultiply:
		return c.Multiply(ctx, operands[0], operands[1])
	case OpDivide:
		return c.Divide(ctx, operands[0], operands[1])
	case OpPower:
		return c.Power(ctx, operands[0], operands[1])
	case OpSqrt:
		return c.Sqrt(ctx, operands[0])
	case OpLog10:
		return c.Log10(ctx, operands[0])
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
}

func (c *Calculator) authorize(ctx context.Context, description string) error {
	if c.permissions == nil {
		return &OperationError{Op: OpMultiply, Err: ErrPermissionDenied}
	}

	allowed, err := c.permissions.Allowed(ctx, description, c.user)
	if err != nil {
		return &OperationError{Op: OpMultiply, Err: fmt.Errorf("%w: %w", ErrPermissionDenied, err)}
	}
	if !allowed {
		return &OperationError{Op: OpMultiply, Err: ErrPermissionDenied}
	}
	return nil
}
