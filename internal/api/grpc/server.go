package grpc

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GriffinCanCode/calculator/internal/calculator"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/tracing"
)

// Server implements CalculatorServer on top of a Calculator.
type Server struct {
	calc    *calculator.Calculator
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewServer creates the service. metrics and logger may be nil.
func NewServer(calc *calculator.Calculator, metrics *monitoring.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{calc: calc, metrics: metrics, logger: logger}
}

// NewGRPCServer builds a grpc.Server with tracing and logging interceptors
// and the calculator service registered.
func NewGRPCServer(srv *Server, tracer *tracing.Tracer) *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{loggingInterceptor(srv.logger)}
	if tracer != nil {
		interceptors = append([]grpc.UnaryServerInterceptor{tracing.GRPCUnaryInterceptor(tracer)}, interceptors...)
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptors...),
		grpc.MaxRecvMsgSize(1024*1024),
	)
	RegisterCalculatorServer(s, srv)
	return s
}

// Calculate evaluates one operation. String operands are parsed like path
// parameters ("2" is an integer, "2.0" a float); number operands are floats.
func (s *Server) Calculate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	name := in.GetFields()["operation"].GetStringValue()
	op, err := calculator.Lookup(name)
	if err != nil {
		return nil, toStatus(err)
	}

	values := in.GetFields()["operands"].GetListValue().GetValues()
	operands := make([]interface{}, len(values))
	for i, v := range values {
		operands[i] = operand(v)
	}

	timer := monitoring.NewTimer(s.metrics, op.Name)
	result, err := s.calc.Apply(ctx, op.Name, operands...)
	timer.Stop(calculator.Kind(err))
	if err != nil {
		return nil, toStatus(err)
	}

	reply := map[string]interface{}{
		"operation": op.Name,
		"result":    nil,
		"text":      result.String(),
		"integer":   result.Integer,
	}
	if !math.IsNaN(result.Value) && !math.IsInf(result.Value, 0) {
		reply["result"] = result.Value
	}
	return structpb.NewStruct(reply)
}

// Operations returns the catalog.
func (s *Server) Operations(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	ops := calculator.Operations()
	list := make([]interface{}, len(ops))
	for i, op := range ops {
		aliases := make([]interface{}, len(op.Aliases))
		for j, a := range op.Aliases {
			aliases[j] = a
		}
		list[i] = map[string]interface{}{
			"name":        op.Name,
			"aliases":     aliases,
			"description": op.Description,
			"arity":       op.Arity,
			"restricted":  op.Restricted,
		}
	}
	return structpb.NewStruct(map[string]interface{}{"operations": list})
}

func operand(v *structpb.Value) interface{} {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		if n, err := calculator.ParseOperand(k.StringValue); err == nil {
			return n
		}
		return k.StringValue
	case *structpb.Value_NumberValue:
		return k.NumberValue
	case *structpb.Value_BoolValue:
		return k.BoolValue
	default:
		return nil
	}
}

func toStatus(err error) error {
	code := codes.Internal
	switch {
	case calculator.IsValidation(err), errors.Is(err, calculator.ErrArity):
		code = codes.InvalidArgument
	case calculator.IsPermission(err):
		code = codes.PermissionDenied
	case errors.Is(err, calculator.ErrUnknownOperation):
		code = codes.NotFound
	}
	return status.Error(code, err.Error())
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		if traceID := tracing.GetTraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID.String()))
		}
		if err != nil {
			logger.Info("gRPC request failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("gRPC request", fields...)
		}
		return resp, err
	}
}
