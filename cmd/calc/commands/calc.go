package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apigrpc "github.com/GriffinCanCode/calculator/internal/api/grpc"
	"github.com/GriffinCanCode/calculator/internal/calculator"
)

type resultOutput struct {
	Operation string        `json:"operation"`
	Operands  []interface{} `json:"operands"`
	User      string        `json:"user,omitempty"`
	Result    string        `json:"result"`
}

func operationCmd(opts *options, op calculator.Operation) *cobra.Command {
	params := make([]string, len(op.Parameters))
	for i, p := range op.Parameters {
		params[i] = "<" + p.Name + ">"
	}

	return &cobra.Command{
		Use:     op.Name + " " + strings.Join(params, " "),
		Aliases: op.Aliases,
		Short:   op.Description,
		Args:    cobra.ExactArgs(op.Arity),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.server != "" {
				return remote(cmd, opts, op, args)
			}

			calc, err := opts.calculator()
			if err != nil {
				return err
			}

			operands := make([]interface{}, len(args))
			for i, arg := range args {
				if v, err := calculator.ParseOperand(arg); err == nil {
					operands[i] = v
				} else {
					operands[i] = arg
				}
			}

			result, err := calc.Apply(opts.context(cmd), op.Name, operands...)
			opts.debug("Evaluated",
				zap.String("operation", op.Name),
				zap.Strings("args", args),
				zap.String("kind", calculator.Kind(err)),
			)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				out, err := sonic.MarshalString(resultOutput{
					Operation: op.Name,
					Operands:  operands,
					User:      calc.User(),
					Result:    result.String(),
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return err
		},
	}
}

// remote evaluates on a gRPC server; permissions are the server's.
func remote(cmd *cobra.Command, opts *options, op calculator.Operation, args []string) error {
	client, err := apigrpc.NewClient(opts.server)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(opts.context(cmd), opts.timeout)
	defer cancel()

	reply, err := client.Calculate(ctx, op.Name, args...)
	if err != nil {
		return err
	}
	opts.debug("Evaluated remotely", zap.String("server", opts.server), zap.String("operation", op.Name))

	if opts.jsonOutput {
		operands := make([]interface{}, len(args))
		for i, a := range args {
			operands[i] = a
		}
		out, err := sonic.MarshalString(resultOutput{
			Operation: reply.Operation,
			Operands:  operands,
			Result:    reply.Text,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return err
}
