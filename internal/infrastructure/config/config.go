package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Permission backends.
const (
	BackendStatic = "static"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendRemote = "remote"
)

// Rate limit scopes.
const (
	RateLimitPerIP  = "ip"
	RateLimitGlobal = "global"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
	Permissions PermissionsConfig
	GRPC        GRPCConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"5000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxConnections  int           `envconfig:"MAX_CONNECTIONS" default:"1024"`
	Compression     bool          `envconfig:"COMPRESSION" default:"true"`
}

// GRPCConfig holds the optional gRPC listener configuration.
type GRPCConfig struct {
	Enabled bool   `envconfig:"GRPC_ENABLED" default:"false"`
	Port    string `envconfig:"GRPC_PORT" default:"50051"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int    `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int    `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool   `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Scope             string `envconfig:"RATE_LIMIT_SCOPE" default:"ip"`
}

// PermissionsConfig selects and configures the multiply permission backend.
type PermissionsConfig struct {
	Backend         string        `envconfig:"PERMISSIONS_BACKEND" default:"static"`
	User            string        `envconfig:"PERMISSIONS_USER" default:"user1"`
	AllowedUsers    []string      `envconfig:"PERMISSIONS_ALLOWED_USERS" default:"user1"`
	PolicyFile      string        `envconfig:"PERMISSIONS_POLICY_FILE"`
	RedisAddr       string        `envconfig:"PERMISSIONS_REDIS_ADDR" default:"localhost:6379"`
	RedisPrefix     string        `envconfig:"PERMISSIONS_REDIS_PREFIX" default:"calc:permissions"`
	RemoteURL       string        `envconfig:"PERMISSIONS_REMOTE_URL"`
	Timeout         time.Duration `envconfig:"PERMISSIONS_TIMEOUT" default:"2s"`
	BreakerFailures uint32        `envconfig:"PERMISSIONS_BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"PERMISSIONS_BREAKER_TIMEOUT" default:"30s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "5000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
			MaxConnections:  1024,
			Compression:     true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			Scope:             RateLimitPerIP,
		},
		Permissions: PermissionsConfig{
			Backend:         BackendStatic,
			User:            "user1",
			AllowedUsers:    []string{"user1"},
			RedisAddr:       "localhost:6379",
			RedisPrefix:     "calc:permissions",
			Timeout:         2 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		GRPC: GRPCConfig{
			Enabled: false,
			Port:    "50051",
		},
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GRPCAddr returns the gRPC listen address.
func (c *Config) GRPCAddr() string {
	return c.Server.Host + ":" + c.GRPC.Port
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Server.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Server.Port, err)
	}
	if c.GRPC.Enabled {
		if _, err := strconv.ParseUint(c.GRPC.Port, 10, 16); err != nil {
			return fmt.Errorf("invalid GRPC_PORT %q: %w", c.GRPC.Port, err)
		}
		if c.GRPC.Port == c.Server.Port {
			return fmt.Errorf("GRPC_PORT must differ from PORT (%s)", c.Server.Port)
		}
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("MAX_CONNECTIONS must not be negative, got %d", c.Server.MaxConnections)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimit.RequestsPerSecond)
	}
	switch c.RateLimit.Scope {
	case RateLimitPerIP, RateLimitGlobal:
	default:
		return fmt.Errorf("RATE_LIMIT_SCOPE must be %q or %q, got %q", RateLimitPerIP, RateLimitGlobal, c.RateLimit.Scope)
	}

	return c.Permissions.Validate()
}

// Validate checks that the selected backend has what it needs.
func (p PermissionsConfig) Validate() error {
	if p.User == "" {
		return fmt.Errorf("PERMISSIONS_USER must not be empty")
	}
	switch p.Backend {
	case BackendStatic:
	case BackendFile:
		if p.PolicyFile == "" {
			return fmt.Errorf("PERMISSIONS_POLICY_FILE is required for the %q backend", p.Backend)
		}
	case BackendRedis:
		if p.RedisAddr == "" {
			return fmt.Errorf("PERMISSIONS_REDIS_ADDR is required for the %q backend", p.Backend)
		}
	case BackendRemote:
		if p.RemoteURL == "" {
			return fmt.Errorf("PERMISSIONS_REMOTE_URL is required for the %q backend", p.Backend)
		}
	default:
		return fmt.Errorf("unknown PERMISSIONS_BACKEND %q", p.Backend)
	}
	return nil
}
