package http

import (
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/calculator/internal/calculator"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/calculator/internal/shared/id"
)

// Integers in request bodies decode as int64 so "2" and "2.0" stay distinct.
var jsonAPI = sonic.Config{UseInt64: true}.Froze()

// ExecuteRequest is the body of POST /calc/execute.
type ExecuteRequest struct {
	Operation string        `json:"operation"`
	Operands  []interface{} `json:"operands"`
}

// ExecuteResponse is the successful answer of POST /calc/execute. Result is
// null when the value is not finite; Text always carries it.
type ExecuteResponse struct {
	ID        string      `json:"id"`
	Operation string      `json:"operation"`
	Result    interface{} `json:"result"`
	Text      string      `json:"text"`
}

// ErrorResponse is the failure answer of POST /calc/execute.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func routePath(name string, arity int) string {
	path := "/calc/" + name
	for i := 1; i <= arity; i++ {
		path += "/:op_" + strconv.Itoa(i)
	}
	return path
}

// Calculate returns the plain-text handler for a path route such as
// /calc/add/:op_1/:op_2. Any failure is a 400 carrying the error message.
func (h *Handlers) Calculate(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := make([]string, 0, 2)
		for i := 1; ; i++ {
			v, ok := c.Params.Get("op_" + strconv.Itoa(i))
			if !ok {
				break
			}
			raw = append(raw, v)
		}

		result, err := h.evaluate(c, operation, raw)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusOK, result.String())
	}
}

func (h *Handlers) evaluate(c *gin.Context, operation string, raw []string) (calculator.Result, error) {
	timer := monitoring.NewTimer(h.metrics, operation)

	// Text that is not a number is passed through as a string: multiply still
	// consults permissions before the operand check rejects it.
	operands := make([]interface{}, len(raw))
	for i, s := range raw {
		if v, err := calculator.ParseOperand(s); err == nil {
			operands[i] = v
		} else {
			operands[i] = s
		}
	}

	result, err := h.calc.Apply(c.Request.Context(), operation, operands...)
	timer.Stop(calculator.Kind(err))
	h.log(operation, operands, result, err)
	return result, err
}

// Execute evaluates a JSON request.
func (h *Handlers) Execute(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read body: " + err.Error(), Kind: "invalid_request"})
		return
	}

	var req ExecuteRequest
	if err := jsonAPI.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error(), Kind: "invalid_request"})
		return
	}

	op, err := calculator.Lookup(req.Operation)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: calculator.Kind(err)})
		return
	}

	timer := monitoring.NewTimer(h.metrics, op.Name)
	result, err := h.calc.Apply(c.Request.Context(), op.Name, req.Operands...)
	timer.Stop(calculator.Kind(err))
	h.log(op.Name, req.Operands, result, err)

	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: calculator.Kind(err)})
		return
	}

	c.JSON(http.StatusOK, ExecuteResponse{
		ID:        id.NewCalculationID().String(),
		Operation: op.Name,
		Result:    result.Number(),
		Text:      result.String(),
	})
}

func (h *Handlers) log(operation string, operands []interface{}, result calculator.Result, err error) {
	if err != nil {
		h.logger.Info("Calculation rejected",
			zap.String("operation", operation),
			zap.Any("operands", operands),
			zap.String("kind", calculator.Kind(err)),
			zap.Error(err),
		)
		return
	}
	h.logger.Debug("Calculation completed",
		zap.String("operation", operation),
		zap.Any("operands", operands),
		zap.String("result", result.String()),
	)
}
