// Package cli implements the chunkkit command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/botirk38/chunkkit/config"
	"github.com/botirk38/chunkkit/logger"
)

// app carries state shared by the subcommands once the root has run.
type app struct {
	configPath string
	logLevel   string
	logJSON    bool

	cfg *config.Config
	log logger.Logger
}

// NewRootCommand builds the chunkkit command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "chunkkit",
		Short:         "Split documents into retrieval-sized chunks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ~/.config/chunkkit/config.toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error, disabled")
	flags.BoolVar(&a.logJSON, "log-json", false, "Log as JSON")

	rootCmd.AddCommand(
		newChunkCommand(a),
		newStrategiesCommand(),
		newConfigCommand(a),
	)
	return rootCmd
}

// setup loads the configuration, applies global flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	a.cfg = cfg

	logger.SetupLogger(string(cfg.LogLevel()), cfg.Log.JSON, cmd.ErrOrStderr())
	a.log = logger.GetDefault()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.ContextWithLogger(ctx, a.log))
	return nil
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, args []string) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
