package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/calculator/internal/calculator"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/monitoring"
)

// Greeting is the body served at the root route.
const Greeting = "Hello from The Calculator!\n"

// Handlers contains the HTTP handlers for the calculator API
type Handlers struct {
	calc    *calculator.Calculator
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandlers creates a new handlers instance. metrics and logger may be nil.
func NewHandlers(calc *calculator.Calculator, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		calc:    calc,
		metrics: metrics,
		logger:  logger,
	}
}

// Root handles the root endpoint
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}

// Health handles health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "calculator",
		"user":    h.calc.User(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// Operations lists the operation catalog
func (h *Handlers) Operations(c *gin.Context) {
	ops := calculator.Operations()
	c.JSON(http.StatusOK, gin.H{
		"operations": ops,
		"count":      len(ops),
	})
}

// Register mounts every calculator route on r.
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.GET("/calc/operations", h.Operations)
	r.POST("/calc/execute", h.Execute)

	for _, op := range calculator.Operations() {
		names := append([]string{op.Name}, op.Aliases...)
		for _, name := range names {
			r.GET(routePath(name, op.Arity), h.Calculate(op.Name))
		}
	}
}
