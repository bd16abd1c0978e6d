package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperand is returned when an operand is not a number.
	ErrInvalidOperand = errors.New("parameters must be numbers")
	// ErrDomain is returned when a numeric operand is outside the operation's domain.
	ErrDomain = errors.New("operand outside of operation domain")
	// ErrPermissionDenied is returned when the permission checker refuses an operation.
	ErrPermissionDenied = errors.New("user has no permissions")
	// ErrUnknownOperation is returned by Apply and Lookup for names not in the catalog.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrArity is returned by Apply when the operand count does not match the operation.
	ErrArity = errors.New("wrong number of operands")
)

// OperationError records the operation that failed and why.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is an operand type or domain violation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidOperand) || errors.Is(err, ErrDomain)
}

// IsPermission reports whether err is a permission denial.
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// Kind returns a short label for err, used in API responses and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidOperand):
		return "invalid_operand"
	case errors.Is(err, ErrDomain):
		return "domain"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrUnknownOperation):
		return "unknown_operation"
	case errors.Is(err, ErrArity):
		return "arity"
	default:
		return "internal"
	}
}

func domainError(op, reason string) error {
	return &OperationError{Op: op, Err: fmt.Errorf("%w: %s", ErrDomain, reason)}
}

func operandError(op string) error {
	return &OperationError{Op: op, Err: ErrInvalidOperand}
}
