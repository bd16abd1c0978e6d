package permissions

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/calculator/internal/infrastructure/resilience"
)

// Observer receives every permission decision.
type Observer interface {
	RecordPermissionCheck(backend string, allowed bool, err error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, operation, user string) (bool, error)

// Allowed calls f.
func (f CheckerFunc) Allowed(ctx context.Context, operation, user string) (bool, error) {
	return f(ctx, operation, user)
}

// WithTimeout bounds every check to d.
func WithTimeout(next Checker, d time.Duration) Checker {
	if d <= 0 {
		return next
	}
	return CheckerFunc(func(ctx context.Context, operation, user string) (bool, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next.Allowed(ctx, operation, user)
	})
}

// WithBreaker routes checks through breaker. Denials are not failures; only
// backend errors count toward opening it.
func WithBreaker(next Checker, breaker *resilience.Breaker) Checker {
	return CheckerFunc(func(ctx context.Context, operation, user string) (bool, error) {
		return resilience.Do(ctx, breaker, func(ctx context.Context) (bool, error) {
			return next.Allowed(ctx, operation, user)
		})
	})
}

// WithAudit logs each decision and reports it to observer, which may be nil.
func WithAudit(next Checker, backend string, logger *zap.Logger, observer Observer) Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return CheckerFunc(func(ctx context.Context, operation, user string) (bool, error) {
		start := time.Now()
		allowed, err := next.Allowed(ctx, operation, user)

		fields := []zap.Field{
			zap.String("backend", backend),
			zap.String("user", user),
			zap.String("operation", operation),
			zap.Bool("allowed", allowed && err == nil),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case err != nil:
			logger.Warn("Permission check failed", append(fields, zap.Error(err))...)
		case !allowed:
			logger.Info("Permission denied", fields...)
		default:
			logger.Debug("Permission granted", fields...)
		}

		if observer != nil {
			observer.RecordPermissionCheck(backend, allowed && err == nil, err)
		}
		return allowed && err == nil, err
	})
}
