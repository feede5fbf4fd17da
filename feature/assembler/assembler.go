package assembler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"data-france/core/config"
	"data-france/core/geometry"
	"data-france/core/ids"
	"data-france/core/logger"
	"data-france/core/reconcile"
	"data-france/core/sources"
)

var (
	// ErrUnknownArtifact is returned by Run for names outside the plan.
	ErrUnknownArtifact = errors.New("unknown artifact")

	// ErrDependencyFailed marks artifacts skipped because an artifact they read failed
	// earlier in the same run.
	ErrDependencyFailed = errors.New("dependency failed")
)

// Result is the outcome of one artifact build.
type Result struct {
	// Name is the artifact name.
	Name string `json:"name"`

	// Rows counts the rows written per output.
	Rows map[string]int `json:"rows,omitempty"`

	// Duration is the wall time of the build.
	Duration time.Duration `json:"duration"`

	// Err is the failure, if any.
	Err error `json:"-"`
}

// Assembler builds the reference dataset artifacts.
type Assembler struct {
	build      config.Build
	rules      reconcile.Rules
	overrides  *sources.Overrides
	registry   *ids.Registry
	simplifier geometry.Simplifier
	logger     *zap.Logger
	plan       []Artifact
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithSimplifier sets the geometry simplifier. Geometries are left untouched by default.
func WithSimplifier(s geometry.Simplifier) Option {
	return func(a *Assembler) {
		a.simplifier = s
	}
}

// WithRegistry replaces the identifier store registry.
func WithRegistry(r *ids.Registry) Option {
	return func(a *Assembler) {
		a.registry = r
	}
}

// New creates an assembler.
func New(build config.Build, rules reconcile.Rules, overrides *sources.Overrides, log *zap.Logger, opts ...Option) *Assembler {
	a := &Assembler{
		build:      build,
		rules:      rules,
		overrides:  overrides,
		registry:   ids.NewRegistry(build.ReferencesDir),
		simplifier: geometry.Identity{},
		logger:     log,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.plan = a.artifacts()
	return a
}

// Plan returns the artifacts in build order.
func (a *Assembler) Plan() []Artifact {
	return append([]Artifact(nil), a.plan...)
}

// SourcePath resolves the file of a source inside the sources directory.
func (a *Assembler) SourcePath(name string) (string, error) {
	for _, ext := range sourceExtensions {
		path := filepath.Join(a.build.SourcesDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrMissingSource, name, a.build.SourcesDir)
}

// Run builds the named artifacts, or the whole plan when no name is given, in plan
// order. A failed artifact does not stop the others, except those reading it.
// The returned error joins every artifact failure.
func (a *Assembler) Run(ctx context.Context, names ...string) ([]Result, error) {
	selected, err := a.selection(names)
	if err != nil {
		return nil, err
	}

	var (
		results []Result
		errs    []error
		failed  = make(map[string]bool)
	)

	for _, art := range a.plan {
		if !selected[art.Name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res := a.runArtifact(ctx, art, failed)
		if res.Err != nil {
			failed[art.Name] = true
			errs = append(errs, fmt.Errorf("artifact %s: %w", art.Name, res.Err))
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}

func (a *Assembler) selection(names []string) (map[string]bool, error) {
	selected := make(map[string]bool)
	if len(names) == 0 {
		for _, art := range a.plan {
			selected[art.Name] = true
		}
		return selected, nil
	}

	known := make(map[string]bool, len(a.plan))
	for _, art := range a.plan {
		known[art.Name] = true
	}
	for _, n := range names {
		if !known[n] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownArtifact, n)
		}
		selected[n] = true
	}
	return selected, nil
}

func (a *Assembler) runArtifact(ctx context.Context, art Artifact, failed map[string]bool) Result {
	l := logger.WithArtifact(a.logger, art.Name)
	res := Result{Name: art.Name}

	for _, dep := range art.Requires {
		if failed[dep] {
			res.Err = fmt.Errorf("%w: %s", ErrDependencyFailed, dep)
			l.Warn("Skipping artifact", zap.String("dependency", dep))
			return res
		}
	}

	start := time.Now()
	l.Info("Building artifact")

	s := newSession(a, art.Name, l)
	if err := art.Build(ctx, s); err != nil {
		if aerr := s.abort(); aerr != nil {
			l.Warn("Failed to abort session", zap.Error(aerr))
		}
		res.Err = err
		res.Duration = time.Since(start)
		l.Error("Artifact failed", zap.Error(err), zap.Duration("duration", res.Duration))
		return res
	}

	res.Rows = s.Rows()
	if err := s.commit(); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		l.Error("Failed to commit artifact", zap.Error(err))
		return res
	}

	res.Duration = time.Since(start)
	l.Info("Artifact committed", zap.Any("rows", res.Rows), zap.Duration("duration", res.Duration))
	return res
}
