package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIsIsolated(t *testing.T) {
	// Two collectors must not collide on registration
	a := NewMetrics()
	b := NewMetrics()

	a.RecordOperation("add", "ok", time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.OperationsTotal.WithLabelValues("add", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.OperationsTotal.WithLabelValues("add", "ok")))
}

func TestRecordOperationAndPermission(t *testing.T) {
	m := NewMetrics()

	m.RecordOperation("divide", "ok", time.Millisecond)
	m.RecordOperation("divide", "domain", time.Millisecond)
	m.RecordPermissionCheck("static", true, nil)
	m.RecordPermissionCheck("redis", false, nil)
	m.RecordPermissionCheck("redis", false, errors.New("dial tcp: refused"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("divide", "domain")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PermissionChecks.WithLabelValues("static", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PermissionChecks.WithLabelValues("redis", "denied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PermissionChecks.WithLabelValues("redis", "error")))

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Operations)
	assert.Equal(t, int64(1), snap.FailedOps)
	assert.Equal(t, int64(2), snap.PermissionDeny)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/calc/sqrt/:op_1", func(c *gin.Context) {
		c.String(http.StatusBadRequest, "")
	})

	for _, path := range []string{"/calc/sqrt/-1", "/calc/sqrt/-2", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/calc/sqrt/:op_1", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(3), snap.TotalErrors)
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	NewTimer(m, "power").Stop("ok")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `calc_operations_total{operation="power",outcome="ok"} 1`))
	assert.Contains(t, body, "calc_uptime_seconds")
}

func TestNilTimerIsSafe(t *testing.T) {
	var timer *Timer
	assert.NotPanics(t, func() { timer.Stop("ok") })
	assert.NotPanics(t, func() { NewTimer(nil, "add").Stop("ok") })
}
