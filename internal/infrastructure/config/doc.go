// Package config provides 12-factor configuration management for the calculator service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, shutdown timeout, connection cap, gzip)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Permissions: Backend answering whether a user may multiply
//   - GRPC: Optional gRPC listener
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s\n", cfg.Addr())
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT, MAX_CONNECTIONS, COMPRESSION
//   - GRPC_ENABLED, GRPC_PORT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED, RATE_LIMIT_SCOPE (ip|global)
//   - PERMISSIONS_BACKEND (static, file, redis, remote), PERMISSIONS_USER,
//     PERMISSIONS_ALLOWED_USERS, PERMISSIONS_POLICY_FILE,
//     PERMISSIONS_REDIS_ADDR, PERMISSIONS_REDIS_PREFIX, PERMISSIONS_REMOTE_URL,
//     PERMISSIONS_TIMEOUT, PERMISSIONS_BREAKER_FAILURES, PERMISSIONS_BREAKER_TIMEOUT
package config
