package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/calculator/internal/shared/id"
)

func newObservedTracer(t *testing.T) (*Tracer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return New("calculator", zap.New(core)), logs
}

func TestStartSpan(t *testing.T) {
	tracer, _ := newObservedTracer(t)
	defer tracer.Close()

	root, ctx := tracer.StartSpan(context.Background(), "root")
	assert.True(t, strings.HasPrefix(root.TraceID.String(), "trace_"))
	assert.Empty(t, root.ParentID)
	assert.Equal(t, root.TraceID, GetTraceID(ctx))
	assert.Equal(t, root.SpanID, GetSpanID(ctx))

	child, _ := tracer.StartSpan(ctx, "child")
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.NotEqual(t, root.SpanID, child.SpanID)
}

func TestInjectExtract(t *testing.T) {
	ctx := WithTraceContext(context.Background(), id.TraceID("trace_a"), id.SpanID("span_b"))

	headers := map[string]string{}
	InjectTraceContext(ctx, headers)
	assert.Equal(t, "trace_a", headers[TraceHeader])
	assert.Equal(t, "span_b", headers[SpanHeader])

	traceID, spanID := ExtractTraceContext(headers)
	assert.Equal(t, id.TraceID("trace_a"), traceID)
	assert.Equal(t, id.SpanID("span_b"), spanID)

	assert.Equal(t, "[trace:trace_a span:span_b]", FormatTrace(traceID, spanID))
}

func TestSpansAreLogged(t *testing.T) {
	tracer, logs := newObservedTracer(t)

	ok, _ := tracer.StartSpan(context.Background(), "ok")
	ok.Finish()
	tracer.Submit(ok)

	failed, _ := tracer.StartSpan(context.Background(), "failed")
	failed.SetError(errors.New("boom"))
	failed.Finish()
	tracer.Submit(failed)

	tracer.Close()
	tracer.Submit(ok) // after Close: ignored

	assert.Equal(t, 1, logs.FilterMessage("span completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("span completed with error").Len())
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, logs := newObservedTracer(t)

	var seen id.TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/calc/add/:op_1/:op_2", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.String(http.StatusOK, "4")
	})

	t.Run("starts a trace", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/calc/add/2/2", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(TraceHeader))
		assert.NotEmpty(t, w.Header().Get(SpanHeader))
		assert.Equal(t, w.Header().Get(TraceHeader), seen.String())
	})

	t.Run("continues an incoming trace", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/calc/add/2/2", nil)
		req.Header.Set(TraceHeader, "trace_upstream")
		req.Header.Set(SpanHeader, "span_upstream")
		router.ServeHTTP(w, req)

		assert.Equal(t, "trace_upstream", w.Header().Get(TraceHeader))
		assert.Equal(t, id.TraceID("trace_upstream"), seen)
	})

	tracer.Close()

	entries := logs.FilterMessage("span completed").All()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	assert.Equal(t, "/calc/add/:op_1/:op_2", fields["operation"])
	assert.Equal(t, "span_upstream", fields["parent_id"])
	assert.Equal(t, "200", fields["http.status"])
}
