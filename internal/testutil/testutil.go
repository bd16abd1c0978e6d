// Package testutil provides testing utilities and helpers for calculator tests.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPermissionChecker is a mock implementation of calculator.PermissionChecker.
type MockPermissionChecker struct {
	mock.Mock
}

// Allowed mocks the Allowed method.
func (m *MockPermissionChecker) Allowed(ctx context.Context, operation, user string) (bool, error) {
	args := m.Called(ctx, operation, user)
	return args.Bool(0), args.Error(1)
}

// AllowAll is a checker that grants everything.
type AllowAll struct{}

// Allowed always returns true.
func (AllowAll) Allowed(context.Context, string, string) (bool, error) { return true, nil }

// DenyAll is a checker that refuses everything.
type DenyAll struct{}

// Allowed always returns false.
func (DenyAll) Allowed(context.Context, string, string) (bool, error) { return false, nil }
