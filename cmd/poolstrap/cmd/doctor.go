package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/poolkit/poolstrap/internal/config"
	"github.com/poolkit/poolstrap/internal/preflight"
)

func newDoctorCmd() *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check host requirements and diagnose issues",
		Long: `Run host diagnostics to ensure an s-nomp pool can be bootstrapped.

Checks:
  - Node.js >= 20 and npm
  - redis CLI and a live redis server
  - gcc, g++, make, python3 (needed by node-gyp)
  - libsodium and boost headers (optional, some hash algorithms)
  - pm2 (optional process manager)

Use --verbose for resolved paths.
Use --json for machine-readable output.`,
		Example: `  # Run diagnostics
  poolstrap doctor

  # JSON output for scripting
  poolstrap doctor --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, verbose, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show resolved tool paths")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runDoctor(cmd *cobra.Command, verbose, jsonOutput bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Doctor works outside a checkout too; config just tunes the probes.
	cfg := config.Default()
	if root, err := config.FindProjectRoot("."); err == nil {
		if loaded, err := config.Load(root); err == nil {
			cfg = loaded
		}
	}

	checker := preflight.New(
		preflight.WithVerbose(verbose),
		preflight.WithOutput(cmd.OutOrStdout()),
		preflight.WithNodeMinMajor(cfg.Node.MinMajor),
		preflight.WithRedisAddr(cfg.Redis.Addr),
	)

	results := checker.RunAll(ctx)

	if jsonOutput {
		return outputJSON(cmd, results)
	}

	checker.PrintResults(results)

	if preflight.HasCriticalFailures(results) {
		return fmt.Errorf("host check failed")
	}
	return nil
}

// doctorReport is the structure for JSON output.
type doctorReport struct {
	Readiness string                  `json:"readiness"`
	Checks    []preflight.CheckResult `json:"checks"`
}

func outputJSON(cmd *cobra.Command, results []preflight.CheckResult) error {
	report := doctorReport{
		Readiness: preflight.Aggregate(results).String(),
		Checks:    results,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return err
	}

	if preflight.HasCriticalFailures(results) {
		return fmt.Errorf("host check failed")
	}
	return nil
}
