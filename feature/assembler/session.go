package assembler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"data-france/core/ids"
	"data-france/core/ordering"
	"data-france/core/sources"
	"data-france/core/tabular"
)

// ErrMissingSource is returned when no file exists for a source.
var ErrMissingSource = errors.New("missing source file")

// sourceExtensions are tried in order when resolving a source file.
var sourceExtensions = []string{".csv", ".csv.xz", ".txt", ".geojson", ".json"}

// Session is the scope of one artifact build. It opens identifier stores on demand,
// at most one handle per store, and owns the outputs of the artifact. Nothing it holds
// is persisted until commit.
type Session struct {
	name   string
	a      *Assembler
	logger *zap.Logger

	stores  map[string]*ids.Store
	order   []string
	outputs []output
	closers []io.Closer

	communes map[ordering.Key]bool
}

type output struct {
	name string
	w    *tabular.Writer
}

func newSession(a *Assembler, name string, logger *zap.Logger) *Session {
	return &Session{
		name:   name,
		a:      a,
		logger: logger,
		stores: make(map[string]*ids.Store),
	}
}

// Store returns the named identifier store, opening it on first use.
func (s *Session) Store(name string) (*ids.Store, error) {
	if st, ok := s.stores[name]; ok {
		return st, nil
	}
	st, err := s.a.registry.Open(name, ids.WithLockTimeout(s.a.build.LockTimeout()))
	if err != nil {
		return nil, err
	}
	s.stores[name] = st
	s.order = append(s.order, name)
	return st, nil
}

// Allocate returns the id of a key in the named store, minting it if needed.
func (s *Session) Allocate(store string, f ids.Fields) (string, error) {
	st, err := s.Store(store)
	if err != nil {
		return "", err
	}
	id, err := st.LookupOrAllocate(f)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(id), nil
}

// Lookup returns the id of a key expected to exist in the named store.
func (s *Session) Lookup(store string, f ids.Fields) (string, error) {
	st, err := s.Store(store)
	if err != nil {
		return "", err
	}
	id, err := st.Lookup(f)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(id), nil
}

// LookupCode is Lookup on a store keyed by code alone. An empty code yields Null.
func (s *Session) LookupCode(store, code string) (string, error) {
	if code == "" {
		return tabular.Null, nil
	}
	return s.Lookup(store, ids.Fields{"code": code})
}

// Output creates a published artifact of the session.
func (s *Session) Output(name string, columns ...string) (*tabular.Writer, error) {
	return s.create(name, s.a.build.ArtifactPath(name), columns)
}

// Intermediate creates an uncompressed artifact consumed by later artifacts.
func (s *Session) Intermediate(name string, columns ...string) (*tabular.Writer, error) {
	return s.create(name, intermediatePath(s.a.build.OutputDir, name), columns)
}

func (s *Session) create(name, path string, columns []string) (*tabular.Writer, error) {
	w, err := tabular.Create(path, columns...)
	if err != nil {
		return nil, err
	}
	s.outputs = append(s.outputs, output{name: name, w: w})
	return w, nil
}

// Source opens a source file through its schema. The reader is closed with the session.
func (s *Session) Source(name string) (*tabular.Reader, error) {
	schema, err := sources.Lookup(name)
	if err != nil {
		return nil, err
	}
	path, err := s.a.SourcePath(name)
	if err != nil {
		return nil, err
	}
	r, err := schema.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", name, err)
	}
	s.closers = append(s.closers, r)
	return r, nil
}

// OpenFile opens a raw source file. The file is closed with the session.
func (s *Session) OpenFile(name string) (*os.File, error) {
	path, err := s.a.SourcePath(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, f)
	return f, nil
}

// OpenIntermediate opens an intermediate artifact written by an earlier session.
func (s *Session) OpenIntermediate(name string) (*tabular.Reader, error) {
	r, err := tabular.Open(intermediatePath(s.a.build.OutputDir, name))
	if err != nil {
		return nil, fmt.Errorf("intermediate %s: %w", name, err)
	}
	s.closers = append(s.closers, r)
	return r, nil
}

// Rows returns the number of rows written to each output.
func (s *Session) Rows() map[string]int {
	rows := make(map[string]int, len(s.outputs))
	for _, o := range s.outputs {
		rows[o.name] = o.w.Rows()
	}
	return rows
}

// commit persists the stores, then publishes the outputs. Every store is staged before
// any is renamed into place, so a store that cannot be written leaves all of them as
// they were.
func (s *Session) commit() error {
	s.closeSources()

	var errs []error
	for _, name := range s.order {
		if err := s.stores[name].Prepare(); err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append(errs, s.abort())...)
	}

	for _, name := range s.order {
		if err := s.stores[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", name, err))
		}
	}
	if len(errs) > 0 {
		for _, o := range s.outputs {
			_ = o.w.Abort()
		}
		return errors.Join(errs...)
	}

	for _, o := range s.outputs {
		if err := o.w.Commit(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// abort discards the stores and removes the temporary outputs.
func (s *Session) abort() error {
	s.closeSources()

	var errs []error
	for _, name := range s.order {
		if err := s.stores[name].Discard(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, o := range s.outputs {
		if err := o.w.Abort(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) closeSources() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn("Failed to close source", zap.Error(err))
		}
	}
	s.closers = nil
}

func intermediatePath(dir, name string) string {
	return filepath.Join(dir, name+".csv")
}
