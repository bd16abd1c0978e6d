package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/calculator/internal/infrastructure/config"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/logging"
	"github.com/GriffinCanCode/calculator/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags override environment
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	backend := flag.String("permissions", cfg.Permissions.Backend, "Permission backend (static, file, redis, remote)")
	user := flag.String("user", cfg.Permissions.User, "User checked for multiply permission")
	grpcEnabled := flag.Bool("grpc", cfg.GRPC.Enabled, "Also serve gRPC")
	grpcPort := flag.String("grpc-port", cfg.GRPC.Port, "gRPC port")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Permissions.Backend = *backend
	cfg.Permissions.User = *user
	cfg.GRPC.Enabled = *grpcEnabled
	cfg.GRPC.Port = *grpcPort
	cfg.Logging.Development = *dev
	if *dev {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewFromSettings(cfg.Logging.Level, cfg.Logging.Development)
	logger.Info("Calculator service starting")

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)
	if err := srv.Close(); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if runErr != nil {
		logger.Fatal("Server error", zap.Error(runErr))
	}
}
