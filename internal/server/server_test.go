package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apigrpc "github.com/GriffinCanCode/calculator/internal/api/grpc"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/config"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/logging"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/tracing"
)

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	cfg.Logging.Development = true

	srv, err := NewServer(cfg, logging.Wrap(zap.New(core)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv, logs
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServerRoutes(t *testing.T) {
	srv, logs := newTestServer(t, config.Default())
	h := srv.Handler()

	w := get(t, h, "/calc/add/2/2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(tracing.TraceHeader))

	assert.Equal(t, "6", get(t, h, "/calc/multiply/2/3").Body.String())
	assert.Equal(t, "3.0", get(t, h, "/calc/divide/6/2").Body.String())
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/calc/sqrt/-1").Code)

	metrics := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "calc_operations_total")
	assert.Contains(t, metrics.Body.String(), "calc_permission_checks_total")

	assert.NotZero(t, logs.FilterMessage("HTTP request").Len())
	assert.Equal(t, 1, logs.FilterMessage("Server initialized successfully").Len())
}

func TestServerConfiguredUser(t *testing.T) {
	cfg := config.Default()
	cfg.Permissions.User = "alice"
	cfg.Permissions.AllowedUsers = []string{"user1"}

	srv, logs := newTestServer(t, cfg)

	w := get(t, srv.Handler(), "/calc/multiply/2/3")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("Permission denied").Len())
}

func TestServerRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1, Enabled: true}

	srv, _ := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, get(t, srv.Handler(), "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, srv.Handler(), "/").Code)
}

func TestServerRateLimitScope(t *testing.T) {
	fromClient := func(h http.Handler, addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		h.ServeHTTP(w, req)
		return w.Code
	}

	tests := []struct {
		scope  string
		second int
	}{
		{config.RateLimitPerIP, http.StatusOK},
		{config.RateLimitGlobal, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			cfg := config.Default()
			cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1, Enabled: true, Scope: tt.scope}
			srv, _ := newTestServer(t, cfg)
			h := srv.Handler()

			assert.Equal(t, http.StatusOK, fromClient(h, "10.0.0.1:1000"))
			assert.Equal(t, tt.second, fromClient(h, "10.0.0.2:1000"))
		})
	}
}

func TestNewServerRejectsBadPermissions(t *testing.T) {
	cfg := config.Default()
	cfg.Permissions.Backend = config.BackendFile
	cfg.Permissions.PolicyFile = "/nonexistent/policy.yaml"

	_, err := NewServer(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestServerCompression(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	req = httptest.NewRequest(http.MethodGet, "/calc/add/2/2", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "4", w.Body.String())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.GRPC.Enabled = true
	srv, _ := newTestServer(t, cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	grpcLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln, grpcLn) }()

	url := "http://" + ln.Addr().String() + "/calc/power/2/3"
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "8", string(body))

	header := http.Header{"Accept-Encoding": []string{"gzip"}}
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/calc/stream", header)
	require.NoError(t, err)
	var greeting map[string]interface{}
	require.NoError(t, conn.ReadJSON(&greeting))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "calculate", "operation": "sqrt", "operands": []int{4}}))
	var result map[string]interface{}
	require.NoError(t, conn.ReadJSON(&result))
	assert.Equal(t, "2.0", result["text"])
	conn.Close()

	client, err := apigrpc.NewClient(grpcLn.Addr().String())
	require.NoError(t, err)
	defer client.Close()

	reply, err := client.Calculate(ctx, "divide", "6", "2")
	require.NoError(t, err)
	assert.Equal(t, "3.0", reply.Text)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
