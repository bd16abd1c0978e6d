package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 1024, cfg.Server.MaxConnections)
	assert.True(t, cfg.Server.Compression)

	// gRPC is opt-in
	assert.False(t, cfg.GRPC.Enabled)
	assert.Equal(t, "50051", cfg.GRPC.Port)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, RateLimitPerIP, cfg.RateLimit.Scope)

	// Permissions config
	assert.Equal(t, BackendStatic, cfg.Permissions.Backend)
	assert.Equal(t, "user1", cfg.Permissions.User)
	assert.Equal(t, []string{"user1"}, cfg.Permissions.AllowedUsers)

	require.NoError(t, cfg.Validate())
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                         "9000",
		"HOST":                         "127.0.0.1",
		"SHUTDOWN_TIMEOUT":             "3s",
		"LOG_LEVEL":                    "debug",
		"LOG_DEV":                      "true",
		"RATE_LIMIT_RPS":               "500",
		"RATE_LIMIT_BURST":             "1000",
		"RATE_LIMIT_ENABLED":           "false",
		"RATE_LIMIT_SCOPE":             "global",
		"PERMISSIONS_BACKEND":          "redis",
		"PERMISSIONS_USER":             "alice",
		"PERMISSIONS_ALLOWED_USERS":    "alice,bob",
		"PERMISSIONS_REDIS_ADDR":       "redis:6379",
		"PERMISSIONS_REDIS_PREFIX":     "acl",
		"PERMISSIONS_TIMEOUT":          "500ms",
		"PERMISSIONS_BREAKER_FAILURES": "3",
		"PERMISSIONS_BREAKER_TIMEOUT":  "1m",
		"MAX_CONNECTIONS":              "16",
		"COMPRESSION":                  "false",
		"GRPC_ENABLED":                 "true",
		"GRPC_PORT":                    "9001",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, RateLimitGlobal, cfg.RateLimit.Scope)

	assert.Equal(t, BackendRedis, cfg.Permissions.Backend)
	assert.Equal(t, "alice", cfg.Permissions.User)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Permissions.AllowedUsers)
	assert.Equal(t, "redis:6379", cfg.Permissions.RedisAddr)
	assert.Equal(t, "acl", cfg.Permissions.RedisPrefix)
	assert.Equal(t, 500*time.Millisecond, cfg.Permissions.Timeout)
	assert.Equal(t, uint32(3), cfg.Permissions.BreakerFailures)
	assert.Equal(t, time.Minute, cfg.Permissions.BreakerTimeout)

	assert.Equal(t, 16, cfg.Server.MaxConnections)
	assert.False(t, cfg.Server.Compression)
	assert.True(t, cfg.GRPC.Enabled)
	assert.Equal(t, "127.0.0.1:9001", cfg.GRPCAddr())
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Defaults still apply
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, BackendStatic, cfg.Permissions.Backend)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric port", map[string]string{"PORT": "http"}},
		{"bad duration", map[string]string{"PERMISSIONS_TIMEOUT": "soon"}},
		{"unknown backend", map[string]string{"PERMISSIONS_BACKEND": "ldap"}},
		{"file backend without file", map[string]string{"PERMISSIONS_BACKEND": "file"}},
		{"remote backend without url", map[string]string{"PERMISSIONS_BACKEND": "remote"}},
		{"zero rps", map[string]string{"RATE_LIMIT_RPS": "0"}},
		{"unknown rate limit scope", map[string]string{"RATE_LIMIT_SCOPE": "user"}},
		{"grpc on the http port", map[string]string{"GRPC_ENABLED": "true", "GRPC_PORT": "5000"}},
		{"negative connection limit", map[string]string{"MAX_CONNECTIONS": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			assert.Error(t, err)

			// LoadOrDefault falls back instead of failing
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}

func TestValidateBackends(t *testing.T) {
	cfg := Default()

	cfg.Permissions.Backend = BackendFile
	cfg.Permissions.PolicyFile = "policy.yaml"
	assert.NoError(t, cfg.Validate())

	cfg.Permissions.Backend = BackendRemote
	cfg.Permissions.RemoteURL = "http://authz:8080"
	assert.NoError(t, cfg.Validate())

	cfg.Permissions.User = ""
	assert.Error(t, cfg.Validate())
}
