package permissions

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/calculator/internal/infrastructure/config"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/resilience"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromConfig builds the configured backend wrapped with audit logging, and
// with timeout and circuit breaker for network backends. The returned closer
// releases backend connections.
func FromConfig(cfg config.PermissionsConfig, logger *zap.Logger, observer Observer) (Checker, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("permissions")

	var (
		checker Checker
		closer  io.Closer = nopCloser{}
	)

	switch cfg.Backend {
	case config.BackendStatic, "":
		checker = StaticPolicy(cfg.AllowedUsers...)

	case config.BackendFile:
		policy, err := LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Loaded permission policy",
			zap.String("file", cfg.PolicyFile),
			zap.Strings("users", policy.Names()),
		)
		checker = policy

	case config.BackendRedis:
		client := NewRedisClient(cfg.RedisAddr)
		checker = guard(NewRedisChecker(client, cfg.RedisPrefix), "redis", cfg, logger)
		closer = client

	case config.BackendRemote:
		opts := DefaultRemoteOptions()
		if cfg.Timeout > 0 {
			opts.Timeout = cfg.Timeout
		}
		checker = guard(NewRemoteChecker(cfg.RemoteURL, opts), "remote", cfg, logger)

	default:
		return nil, nil, fmt.Errorf("unknown permissions backend %q", cfg.Backend)
	}

	backend := cfg.Backend
	if backend == "" {
		backend = config.BackendStatic
	}
	logger.Info("Permission backend ready", zap.String("backend", backend))

	return WithAudit(checker, backend, logger, observer), closer, nil
}

func guard(next Checker, name string, cfg config.PermissionsConfig, logger *zap.Logger) Checker {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breaker := resilience.New("permissions-"+name, resilience.Settings{
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: resilience.ConsecutiveFailures(failures),
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return WithBreaker(WithTimeout(next, cfg.Timeout), breaker)
}
