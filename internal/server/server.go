package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	apigrpc "github.com/GriffinCanCode/calculator/internal/api/grpc"
	apihttp "github.com/GriffinCanCode/calculator/internal/api/http"
	"github.com/GriffinCanCode/calculator/internal/api/middleware"
	"github.com/GriffinCanCode/calculator/internal/api/ws"
	"github.com/GriffinCanCode/calculator/internal/calculator"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/config"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/logging"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/calculator/internal/permissions"
)

const readHeaderTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router      *gin.Engine
	handler     http.Handler
	grpcServer  *grpc.Server
	calc        *calculator.Calculator
	permissions io.Closer
	tracer      *tracing.Tracer
	logger      *logging.Logger
	config      *config.Config
	metrics     *monitoring.Metrics
}

// NewServer creates a new server instance. A nil logger is built from the
// logging configuration.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewFromSettings(cfg.Logging.Level, cfg.Logging.Development)
	}

	logger.Info("Initializing calculator server",
		zap.String("addr", cfg.Addr()),
		zap.String("permissions_backend", cfg.Permissions.Backend),
		zap.String("user", cfg.Permissions.User),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("calculator", logger.Logger)

	checker, closer, err := permissions.FromConfig(cfg.Permissions, logger.Logger, metrics)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to set up permissions: %w", err)
	}

	calc := calculator.New(checker, calculator.WithUser(cfg.Permissions.User))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.RequestLogger(logger.Named("http").Logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
			zap.String("scope", cfg.RateLimit.Scope),
		)
		limits := middleware.RateLimitFromConfig(cfg.RateLimit)
		if cfg.RateLimit.Scope == config.RateLimitGlobal {
			router.Use(middleware.GlobalRateLimit(limits))
		} else {
			router.Use(middleware.RateLimit(limits))
		}
	}

	handlers := apihttp.NewHandlers(calc, metrics, logger.Named("calc").Logger)
	handlers.Register(router)

	wsHandler := ws.NewHandler(calc, metrics, logger.Named("ws").Logger)
	router.GET("/calc/stream", wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	var handler http.Handler = router
	if cfg.Server.Compression {
		handler = compress(router)
	}

	var grpcServer *grpc.Server
	if cfg.GRPC.Enabled {
		grpcServer = apigrpc.NewGRPCServer(
			apigrpc.NewServer(calc, metrics, logger.Named("grpc").Logger),
			tracer,
		)
		logger.Info("gRPC enabled", zap.String("addr", cfg.GRPCAddr()))
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router:      router,
		handler:     handler,
		grpcServer:  grpcServer,
		calc:        calc,
		permissions: closer,
		tracer:      tracer,
		logger:      logger,
		config:      cfg,
		metrics:     metrics,
	}, nil
}

// compress gzips responses except WebSocket handshakes, which must reach the
// router with a hijackable writer.
func compress(next http.Handler) http.Handler {
	gz := gzhttp.GzipHandler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	})
}

// Handler returns the HTTP handler with compression applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured addresses and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpLn, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}

	var grpcLn net.Listener
	if s.grpcServer != nil {
		grpcLn, err = net.Listen("tcp", s.config.GRPCAddr())
		if err != nil {
			httpLn.Close()
			return fmt.Errorf("failed to listen on %s: %w", s.config.GRPCAddr(), err)
		}
	}
	return s.Serve(ctx, httpLn, grpcLn)
}

// Serve is Run on existing listeners. grpcLn is ignored when gRPC is
// disabled and may be nil.
func (s *Server) Serve(ctx context.Context, httpLn, grpcLn net.Listener) error {
	if n := s.config.Server.MaxConnections; n > 0 {
		httpLn = netutil.LimitListener(httpLn, n)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", httpLn.Addr().String()))
		if err := srv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if s.grpcServer != nil && grpcLn != nil {
		g.Go(func() error {
			s.logger.Info("Starting gRPC server", zap.String("addr", grpcLn.Addr().String()))
			if err := s.grpcServer.Serve(grpcLn); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down listeners", zap.Duration("timeout", s.config.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.grpcServer != nil {
			stopped := make(chan struct{})
			go func() {
				s.grpcServer.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-shutdownCtx.Done():
				s.grpcServer.Stop()
			}
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases the permission backend, drains the tracer and syncs the logger.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	var err error
	if s.permissions != nil {
		if cerr := s.permissions.Close(); cerr != nil {
			s.logger.Error("Failed to close permission backend", zap.Error(cerr))
			err = fmt.Errorf("failed to close permission backend: %w", cerr)
		}
	}
	s.tracer.Close()
	_ = s.logger.Sync()

	return err
}
