package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/calculator/internal/calculator"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/config"
	"github.com/GriffinCanCode/calculator/internal/infrastructure/logging"
	"github.com/GriffinCanCode/calculator/internal/permissions"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	user       string
	allow      []string
	policyFile string
	redisAddr  string
	redisKey   string
	remoteURL  string
	server     string
	logLevel   string
	jsonOutput bool
	timeout    time.Duration

	logger *logging.Logger
	closer io.Closer
}

// Execute runs the root command against os.Args.
func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "calc",
		Short:        "Evaluate calculator operations from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logging.Config{
				Level:       opts.logLevel,
				OutputPaths: []string{"stderr"},
			})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.user, "user", "u", calculator.DefaultUser, "user checked for multiply permission")
	root.PersistentFlags().StringSliceVar(&opts.allow, "allow", []string{calculator.DefaultUser}, "users the static policy allows")
	root.PersistentFlags().StringVar(&opts.policyFile, "policy", "", "policy file (.yaml, .toml or .json)")
	root.PersistentFlags().StringVar(&opts.redisAddr, "redis", "", "Redis address holding permissions")
	root.PersistentFlags().StringVar(&opts.redisKey, "redis-prefix", permissions.DefaultRedisPrefix, "Redis key prefix")
	root.PersistentFlags().StringVar(&opts.remoteURL, "remote", "", "authorization service base URL")
	root.PersistentFlags().StringVar(&opts.server, "server", "", "evaluate on a calculator gRPC server (host:port) instead of locally")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Second, "permission check timeout")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	for _, op := range calculator.Operations() {
		root.AddCommand(operationCmd(opts, op))
	}
	root.AddCommand(operationsCmd(opts), permissionsCmd(opts))
	closeAfter(opts, root)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w (negative operands go after --)", err)
	})
	return root
}

// closeAfter makes every runnable command under cmd release the permission
// backend when it returns, whether or not it failed.
func closeAfter(opts *options, cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		closeAfter(opts, sub)
	}
	if cmd.RunE == nil {
		return
	}
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := opts.close(); err == nil {
				err = cerr
			}
		}()
		return run(cmd, args)
	}
}

func (o *options) close() error {
	if o.closer == nil {
		return nil
	}
	err := o.closer.Close()
	o.closer = nil
	return err
}

// permissionsConfig maps the flags onto the server's permission settings.
func (o *options) permissionsConfig() config.PermissionsConfig {
	cfg := config.Default().Permissions
	cfg.User = o.user
	cfg.AllowedUsers = o.allow
	cfg.Timeout = o.timeout

	switch {
	case o.policyFile != "":
		cfg.Backend = config.BackendFile
		cfg.PolicyFile = o.policyFile
	case o.redisAddr != "":
		cfg.Backend = config.BackendRedis
		cfg.RedisAddr = o.redisAddr
		cfg.RedisPrefix = o.redisKey
	case o.remoteURL != "":
		cfg.Backend = config.BackendRemote
		cfg.RemoteURL = o.remoteURL
	default:
		cfg.Backend = config.BackendStatic
	}
	return cfg
}

func (o *options) calculator() (*calculator.Calculator, error) {
	cfg := o.permissionsConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	checker, closer, err := permissions.FromConfig(cfg, o.logger.Logger, nil)
	if err != nil {
		return nil, err
	}
	o.closer = closer
	return calculator.New(checker, calculator.WithUser(o.user)), nil
}

func (o *options) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (o *options) debug(msg string, fields ...zap.Field) {
	if o.logger != nil {
		o.logger.Debug(msg, fields...)
	}
}
