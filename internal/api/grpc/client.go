package grpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GriffinCanCode/calculator/internal/calculator"
)

// Reply is a decoded Calculate answer.
type Reply struct {
	Operation string
	Result    float64
	Text      string
	Integer   bool
}

// Client wraps a gRPC connection to the calculator service
type Client struct {
	conn *grpc.ClientConn
}

// NewClient creates a client for addr. Extra options are appended to the
// defaults (insecure transport, keepalive).
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:    60 * time.Second,
			Timeout: 20 * time.Second,
		}),
	}

	conn, err := grpc.NewClient(addr, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator client: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Calculate runs operation remotely. Operands are sent as text.
func (c *Client) Calculate(ctx context.Context, operation string, operands ...string) (Reply, error) {
	values := make([]interface{}, len(operands))
	for i, o := range operands {
		values[i] = o
	}
	in, err := structpb.NewStruct(map[string]interface{}{
		"operation": operation,
		"operands":  values,
	})
	if err != nil {
		return Reply{}, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, CalculateMethod, in, out); err != nil {
		return Reply{}, err
	}

	fields := out.GetFields()
	text, ok := fields["text"]
	if !ok {
		return Reply{}, errorf("reply without text")
	}
	return Reply{
		Operation: fields["operation"].GetStringValue(),
		Text:      text.GetStringValue(),
		Result:    fields["result"].GetNumberValue(),
		Integer:   fields["integer"].GetBoolValue(),
	}, nil
}

// Operations fetches the remote catalog.
func (c *Client) Operations(ctx context.Context) ([]calculator.Operation, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, OperationsMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}

	values := out.GetFields()["operations"].GetListValue().GetValues()
	ops := make([]calculator.Operation, 0, len(values))
	for _, v := range values {
		f := v.GetStructValue().GetFields()
		op := calculator.Operation{
			Name:        f["name"].GetStringValue(),
			Description: f["description"].GetStringValue(),
			Arity:       int(f["arity"].GetNumberValue()),
			Restricted:  f["restricted"].GetBoolValue(),
		}
		for _, a := range f["aliases"].GetListValue().GetValues() {
			op.Aliases = append(op.Aliases, a.GetStringValue())
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func errorf(format string, args ...interface{}) error {
	return fmt.Errorf("calculator grpc: "+format, args...)
}
