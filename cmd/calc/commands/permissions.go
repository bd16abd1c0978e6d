package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/calculator/internal/permissions"
)

var errNoRedis = errors.New("--redis is required to manage permissions")

func permissionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Manage multiply permissions stored in Redis",
	}
	cmd.AddCommand(grantCmd(opts), revokeCmd(opts), checkCmd(opts))
	return cmd
}

func (o *options) redisChecker() (*permissions.RedisChecker, error) {
	if o.redisAddr == "" {
		return nil, errNoRedis
	}
	client := permissions.NewRedisClient(o.redisAddr)
	o.closer = client
	return permissions.NewRedisChecker(client, o.redisKey), nil
}

func grantCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "grant <user> <pattern>...",
		Short: `Allow user to multiply operations matching the patterns ("*" for all)`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := opts.redisChecker()
			if err != nil {
				return err
			}
			if err := checker.Grant(opts.context(cmd), args[0], args[1:]...); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "granted %d pattern(s) to %s\n", len(args)-1, args[0])
			return err
		},
	}
}

func revokeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <user> [pattern]...",
		Short: "Remove patterns from user, or every pattern when none are given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := opts.redisChecker()
			if err != nil {
				return err
			}
			if err := checker.Revoke(opts.context(cmd), args[0], args[1:]...); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "revoked permissions of %s\n", args[0])
			return err
		},
	}
}

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <operation>",
		Short: `Ask the configured backend whether --user may run an operation such as "2 * 3"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.permissionsConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			checker, closer, err := permissions.FromConfig(cfg, opts.logger.Logger, nil)
			if err != nil {
				return err
			}
			opts.closer = closer

			allowed, err := checker.Allowed(opts.context(cmd), args[0], opts.user)
			if err != nil {
				return err
			}
			decision := "denied"
			if allowed {
				decision = "allowed"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", opts.user, decision)
			return err
		},
	}
}
