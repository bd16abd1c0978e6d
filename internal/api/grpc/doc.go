// Package grpc exposes the calculator as the calculator.v1.Calculator gRPC
// service and provides a client for it.
//
// Error codes: InvalidArgument for operand, domain and arity errors,
// PermissionDenied for multiply refusals, NotFound for unknown operations.
package grpc
