package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/calculator/internal/calculator"
)

func operationsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List the available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := calculator.Operations()

			if opts.jsonOutput {
				out, err := sonic.MarshalString(ops)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tARITY\tALIASES\tDESCRIPTION")
			for _, op := range ops {
				aliases := strings.Join(op.Aliases, ",")
				if aliases == "" {
					aliases = "-"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", op.Name, op.Arity, aliases, op.Description)
			}
			return w.Flush()
		},
	}
}
