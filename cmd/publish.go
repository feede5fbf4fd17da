package cmd

import (
	"fmt"
	"os"
	"slices"

	"data-france/core/config"
	"data-france/core/storage"
	"data-france/feature/contract"
	"data-france/feature/contract/models"
	"data-france/feature/publish"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// publishCmd uploads the committed artifacts to object storage.
var publishCmd = &cobra.Command{
	Use:   "publish [artifact...]",
	Short: "Upload built artifacts to object storage",
	Long: `Upload the committed artifacts to the configured bucket, under the release
prefix, then remove the objects of that prefix this publication did not write.

Every artifact header is checked against its table contract before anything
is uploaded.`,
	RunE: runPublish,
}

func init() {
	RootCmd.AddCommand(publishCmd)
}

// committedArtifacts returns the artifact files present in the output directory,
// restricted to names when given, after checking their headers.
func committedArtifacts(build config.Build, l *zap.Logger, names []string) ([]string, error) {
	var files []string
	for _, m := range models.All() {
		name := m.TableName()
		if len(names) > 0 && !slices.Contains(names, name) {
			continue
		}
		path := build.ArtifactPath(name)
		if _, err := os.Stat(path); err != nil {
			l.Warn("Artifact not built", zap.String("artifact", name))
			continue
		}
		if err := contract.CheckArtifact(path, m); err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	files, err := committedArtifacts(cfg.Build, l, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no artifact to publish in %s", cfg.Build.OutputDir)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	report, err := publish.New(client, cfg.Storage, l).Publish(cmd.Context(), files...)
	if err != nil {
		return fmt.Errorf("publication failed: %w", err)
	}

	l.Info("Publication completed",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.Int("uploaded", len(report.Uploaded)),
		zap.Int("removed", len(report.Removed)),
	)
	return nil
}
