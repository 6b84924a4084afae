// Package cmd provides the CLI commands for poolstrap.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/poolkit/poolstrap/internal/bootstrap"
	"github.com/poolkit/poolstrap/internal/config"
	"github.com/poolkit/poolstrap/internal/errors"
	"github.com/poolkit/poolstrap/internal/logging"
	"github.com/poolkit/poolstrap/internal/ui"
	"github.com/poolkit/poolstrap/pkg/version"
)

// NewRootCmd creates the root command for the poolstrap CLI.
func NewRootCmd() *cobra.Command {
	var (
		assumeYes bool
		skipCheck bool
		debugMode bool
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "poolstrap",
		Short: "Bootstrap an s-nomp mining pool environment",
		Long: `poolstrap prepares a host to run an s-nomp mining pool server.

Run it from inside an s-nomp checkout. It will:
1. Check Node.js (>= 20), npm, a live redis server, compilers, and optional libraries
2. Install npm dependencies with install scripts suppressed
3. Rebuild the multi-hashing and bignum native modules with node-gyp
4. Patch stratum-pool so verushash is only loaded when actually used

Every stage runs only when the previous one fully succeeded, and the whole
workflow is safe to re-run after fixing the environment.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBootstrap(ctx, cmd, assumeYes, skipCheck, debugMode, noColor)
		},
	}

	cmd.SetVersionTemplate("poolstrap version {{.Version}}\n")

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Proceed without prompting when optional dependencies are missing")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Skip pre-flight environment checks")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write a debug log to .poolstrap/poolstrap.log")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func runBootstrap(ctx context.Context, cmd *cobra.Command, assumeYes, skipCheck, debugMode, noColor bool) error {
	out := ui.New(cmd.OutOrStdout(), noColor)

	root, err := config.FindProjectRoot(".")
	if err != nil {
		out.Error("not inside an s-nomp checkout")
		out.Code("git clone https://github.com/s-nomp/s-nomp.git && cd s-nomp && poolstrap")
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		out.Errorf("invalid configuration: %v", err)
		return err
	}

	log := logging.Discard()
	if debugMode {
		logger, cleanup, err := logging.Setup(root)
		if err != nil {
			out.Errorf("failed to set up debug logging: %v", err)
			return err
		}
		defer cleanup()
		log = logger
	}

	pipeline := bootstrap.New(root, cfg,
		bootstrap.WithOutput(out),
		bootstrap.WithLogger(log),
		bootstrap.WithInput(cmd.InOrStdin()),
		bootstrap.WithAssumeYes(assumeYes),
		bootstrap.WithSkipCheck(skipCheck),
	)

	if err := pipeline.Run(ctx); err != nil {
		out.Newline()
		out.Error(errors.FormatForCLI(err))
		return err
	}
	return nil
}
