package cmd

import (
	"fmt"
	"strings"
	"time"

	"data-france/core/logger"
	"data-france/core/sources"
	"data-france/feature/assembler"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listPlan bool

// buildCmd builds the reference dataset artifacts.
var buildCmd = &cobra.Command{
	Use:   "build [artifact...]",
	Short: "Build reference dataset artifacts",
	Long: `Build the named artifacts, or every artifact when none is given.

Artifacts are built in dependency order. A failing artifact is rolled back
(no identifier is persisted, the previous artifact is kept) and the artifacts
depending on it are skipped; the others are still built.

Examples:
  # Build everything
  data-france build

  # Rebuild the communes and their postal codes
  data-france build communes codes_postaux

  # Show the build plan
  data-france build --list`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&listPlan, "list", false, "Print the artifact plan and exit")
	RootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	if err := cfg.Build.Validate(); err != nil {
		return fmt.Errorf("invalid build configuration: %w", err)
	}

	overrides, err := sources.LoadOverrides(cfg.Build.OverridesFile)
	if err != nil {
		return err
	}

	l = logger.WithRun(l, uuid.NewString())

	var opts []assembler.Option
	if cfg.Build.SimplifierCommand != "" {
		proc, err := startSimplifier(ctx, cfg.Build.SimplifierCommand)
		if err != nil {
			return err
		}
		defer func() {
			if err := proc.Close(); err != nil {
				l.Warn("Simplifier exited with an error", zap.Error(err))
			}
		}()
		opts = append(opts, assembler.WithSimplifier(proc))
	}

	a := assembler.New(cfg.Build, cfg.Events, overrides, l, opts...)

	if listPlan {
		for _, artifact := range a.Plan() {
			if len(artifact.Requires) == 0 {
				fmt.Println(artifact.Name)
				continue
			}
			fmt.Printf("%s <- %s\n", artifact.Name, strings.Join(artifact.Requires, ", "))
		}
		return nil
	}

	start := time.Now()
	l.Info("Starting build", zap.String("output_dir", cfg.Build.OutputDir), zap.Strings("artifacts", args))

	results, err := a.Run(ctx, args...)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	l.Info("Build finished",
		zap.Int("artifacts", len(results)),
		zap.Int("failed", failed),
		zap.Duration("execution_time", time.Since(start)),
	)
	return err
}
