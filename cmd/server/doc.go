// Package main is the entry point for the calculator HTTP service.
//
// Configuration:
//   - Environment variables (12-factor), see internal/infrastructure/config
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./server -port 5000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
//	# HTTP on 5000, gRPC on 50051
//	./server -grpc -grpc-port 50051
//
//	# Permissions from Redis
//	PERMISSIONS_REDIS_ADDR=localhost:6379 ./server -permissions redis
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
