package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/calculator/internal/calculator"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/calculator/internal/shared/id"
)

const (
	maxMessageSize = 64 * 1024
	writeTimeout   = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var jsonAPI = sonic.Config{UseInt64: true}.Froze()

// Message is a client request.
type Message struct {
	Type      string        `json:"type"`
	ID        string        `json:"id,omitempty"`
	Operation string        `json:"operation,omitempty"`
	Operands  []interface{} `json:"operands,omitempty"`
}

// Handler manages WebSocket connections
type Handler struct {
	calc    *calculator.Calculator
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new WebSocket handler. metrics and logger may be nil.
func NewHandler(calc *calculator.Calculator, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{calc: calc, metrics: metrics, logger: logger}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	ctx := c.Request.Context()
	session := id.NewRequestID()
	logger := h.logger.With(zap.String("session", session.String()))
	logger.Debug("WebSocket connected", zap.String("client_ip", c.ClientIP()))

	h.send(conn, gin.H{
		"type":    "system",
		"message": "Connected to The Calculator",
		"session": session.String(),
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := jsonAPI.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, "", "invalid_request", "malformed message")
			continue
		}

		switch msg.Type {
		case "calculate":
			h.handleCalculate(ctx, conn, msg)
		case "operations":
			h.send(conn, gin.H{
				"type":       "operations",
				"id":         msg.ID,
				"operations": calculator.Operations(),
			})
		case "ping":
			h.send(conn, gin.H{"type": "pong", "id": msg.ID})
		default:
			h.sendError(conn, msg.ID, "invalid_request", "unknown message type")
		}
	}
}

func (h *Handler) handleCalculate(ctx context.Context, conn *websocket.Conn, msg Message) {
	op, err := calculator.Lookup(msg.Operation)
	if err != nil {
		h.sendError(conn, msg.ID, calculator.Kind(err), err.Error())
		return
	}

	timer := monitoring.NewTimer(h.metrics, op.Name)
	result, err := h.calc.Apply(ctx, op.Name, msg.Operands...)
	timer.Stop(calculator.Kind(err))
	if err != nil {
		h.sendError(conn, msg.ID, calculator.Kind(err), err.Error())
		return
	}

	h.send(conn, gin.H{
		"type":           "result",
		"id":             msg.ID,
		"calculation_id": id.NewCalculationID().String(),
		"operation":      op.Name,
		"result":         result.Number(),
		"text":           result.String(),
		"timestamp":      time.Now().Unix(),
	})
}

func (h *Handler) send(conn *websocket.Conn, data interface{}) {
	payload, err := sonic.Marshal(data)
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err = conn.WriteMessage(websocket.TextMessage, payload)
	}
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
	}
}

func (h *Handler) sendError(conn *websocket.Conn, msgID, kind, message string) {
	h.send(conn, gin.H{
		"type":      "error",
		"id":        msgID,
		"kind":      kind,
		"message":   message,
		"timestamp": time.Now().Unix(),
	})
}
