package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"data-france/core/reconcile"
)

// Compression modes of the published artifacts.
const (
	CompressionXZ   = "xz"
	CompressionNone = "none"
)

// Build holds the parameters of a dataset build.
type Build struct {
	// ReferencesDir holds the identifier stores, one CSV per entity type.
	ReferencesDir string `mapstructure:"references_dir" default:"references"`
	// SourcesDir holds the prepared source files, named after their schema.
	SourcesDir string `mapstructure:"sources_dir" default:"sources"`
	// OutputDir receives the artifacts.
	OutputDir string `mapstructure:"output_dir" default:"build"`
	// CensusDate is the reference date of the population census (YYYY-MM-DD).
	CensusDate string `mapstructure:"census_date" default:"2018-01-01"`
	// OverridesFile is an optional YAML file of manual corrections.
	OverridesFile string `mapstructure:"overrides_file" default:""`
	// Compression is the artifact compression (xz, none).
	Compression string `mapstructure:"compression" default:"xz"`
	// SimplifierCommand is an optional program speaking the geometry simplification
	// line protocol on its standard input and output.
	SimplifierCommand string `mapstructure:"simplifier_command" default:""`
	// LockTimeoutSeconds bounds the wait for an identifier store lock.
	LockTimeoutSeconds int `mapstructure:"lock_timeout_seconds" default:"30"`
}

// Validate checks the build parameters.
func (b Build) Validate() error {
	var errs []error
	if b.ReferencesDir == "" {
		errs = append(errs, errors.New("build.references_dir is required"))
	}
	if b.SourcesDir == "" {
		errs = append(errs, errors.New("build.sources_dir is required"))
	}
	if b.OutputDir == "" {
		errs = append(errs, errors.New("build.output_dir is required"))
	}
	if _, err := b.Census(); err != nil {
		errs = append(errs, err)
	}
	switch b.Compression {
	case CompressionXZ, CompressionNone:
	default:
		errs = append(errs, fmt.Errorf("build.compression: unsupported value %q", b.Compression))
	}
	return errors.Join(errs...)
}

// Census parses the census date.
func (b Build) Census() (time.Time, error) {
	d, err := reconcile.ParseDate(b.CensusDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("build.census_date: %w", err)
	}
	return d, nil
}

// ArtifactPath returns the output path of an artifact.
func (b Build) ArtifactPath(name string) string {
	ext := ".csv"
	if b.Compression == CompressionXZ {
		ext += ".xz"
	}
	return filepath.Join(b.OutputDir, name+ext)
}

// LockTimeout returns the identifier store lock timeout.
func (b Build) LockTimeout() time.Duration {
	if b.LockTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.LockTimeoutSeconds) * time.Second
}
