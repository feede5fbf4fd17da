package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"data-france/core/database"
	"data-france/feature/contract"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	jsonReport    bool
	artifactsOnly bool
)

// checkCmd verifies the artifacts against the downstream database schema.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check artifacts against the downstream table contracts",
	Long: `Check that every built artifact carries the columns of its table contract and,
unless --artifacts-only is set, that the downstream database tables can receive
them (columns present, compatible types, NULL accepted where needed).`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&jsonReport, "json", false, "Save the database report as JSON")
	checkCmd.Flags().BoolVar(&artifactsOnly, "artifacts-only", false, "Skip the database check")
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	files, err := committedArtifacts(cfg.Build, l, nil)
	if err != nil {
		return err
	}
	l.Info("Artifact headers match their contracts", zap.Int("artifacts", len(files)))

	if artifactsOnly {
		return nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection required: %w", err)
	}

	report, err := contract.CheckDatabase(db)
	if err != nil {
		return err
	}

	if jsonReport {
		filename := fmt.Sprintf("contract_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		l.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	for name, tbl := range report.Tables {
		if tbl.Status == "ok" {
			continue
		}
		l.Warn("Table does not match its contract",
			zap.String("table", name),
			zap.Strings("missing_columns", tbl.MissingColumns),
			zap.Strings("type_mismatches", tbl.TypeMismatches),
			zap.Strings("nullability_mismatches", tbl.NullabilityMismatches),
		)
	}
	for _, e := range report.Errors {
		l.Error("Table inspection failed", zap.String("error", e))
	}

	l.Info("Contract check completed",
		zap.Bool("matched", report.Matched),
		zap.Int("tables", len(report.Tables)),
		zap.Duration("execution_time", time.Since(startTime)),
	)
	if !report.Matched {
		return fmt.Errorf("downstream database does not match the artifact contracts")
	}
	return nil
}
