// Package middleware provides the HTTP middleware in front of the calculator
// routes.
//
//   - CORS: cross-origin access, exposing the trace headers
//   - RateLimit: per-IP token buckets, idle clients are dropped
//   - GlobalRateLimit: one bucket for the whole server
//   - RequestLogger: zap access log carrying the trace ID
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
