// Package calculator implements the arithmetic core of the service.
//
// Operations:
//   - Add, Subtract, Multiply, Divide, Power (two operands)
//   - Sqrt, Log10 (one operand)
//
// Validation:
//   - Operands are untyped; Go integer and float kinds are numbers, anything
//     else fails with ErrInvalidOperand
//   - Domain checks run after type checks: zero divisor, negative square root
//     and non-positive logarithm fail with ErrDomain
//   - Multiply consults a PermissionChecker before validating its operands and
//     fails with ErrPermissionDenied when refused
//
// Results keep track of integer-ness so the text form matches what clients
// expect: add(2, 2) is "4" while divide(6, 2) is "3.0".
//
// Example Usage:
//
//	calc := calculator.New(permissions.StaticPolicy("user1"))
//	result, err := calc.Divide(ctx, 6, 2)
//	fmt.Println(result) // 3.0
package calculator
