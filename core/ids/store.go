package ids

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"data-france/core/ordering"

	"github.com/gofrs/flock"
)

// IDColumn is the name of the identifier column of every store.
const IDColumn = "id"

// Fields holds the key columns of a lookup, by column name.
type Fields map[string]string

func (f Fields) names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type entry struct {
	key ordering.NaturalKey
	id  int
}

// Store is an in-memory identifier map backed by a CSV file.
type Store struct {
	path    string
	columns []string
	index   map[string]int
	rows    []entry
	loaded  int
	lastID  int
	lock    *flock.Flock
	closed  bool

	// prepared is set while the temporary file matches the allocated keys
	prepared bool
}

type options struct {
	createColumns []string
	lockTimeout   time.Duration
}

// Option configures Open.
type Option func(*options)

// WithCreate allows Open to start from an empty store with the given key columns
// when the backing file does not exist yet.
func WithCreate(columns ...string) Option {
	return func(o *options) {
		o.createColumns = columns
	}
}

// WithLockTimeout bounds how long Open waits for the store lock.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = d
	}
}

// Open loads the store at path and takes its lock.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{lockTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), o.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire lock on %s", path)
	}

	s := &Store{
		path:   path,
		index:  make(map[string]int),
		lastID: -1,
		lock:   lock,
	}

	if err := s.load(o.createColumns); err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return s, nil
}

func (s *Store) load(createColumns []string) error {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) && len(createColumns) > 0 {
		s.columns = append([]string(nil), createColumns...)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open identifier store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%w: %s: cannot read header: %v", ErrMalformedStore, s.path, err)
	}

	idPos := -1
	for i, col := range header {
		if col == IDColumn {
			idPos = i
			continue
		}
		s.columns = append(s.columns, col)
	}
	if idPos < 0 {
		return fmt.Errorf("%w: %s: no %q column", ErrMalformedStore, s.path, IDColumn)
	}

	seenIDs := make(map[int]string)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %s:%d: %v", ErrMalformedStore, s.path, line, err)
		}

		id, err := strconv.Atoi(rec[idPos])
		if err != nil || id < 0 {
			return fmt.Errorf("%w: %s:%d: invalid id %q", ErrMalformedStore, s.path, line, rec[idPos])
		}

		key := make(ordering.NaturalKey, 0, len(s.columns))
		for i, v := range rec {
			if i != idPos {
				key = append(key, v)
			}
		}
		k := key.String()

		if existing, ok := s.index[k]; ok {
			if existing != id {
				return fmt.Errorf("%w: %s:%d: key %v mapped to both %d and %d", ErrMalformedStore, s.path, line, []string(key), existing, id)
			}
			continue
		}
		if other, ok := seenIDs[id]; ok {
			return fmt.Errorf("%w: %s:%d: id %d shared by %q and %v", ErrMalformedStore, s.path, line, id, other, []string(key))
		}

		seenIDs[id] = k
		s.index[k] = id
		s.rows = append(s.rows, entry{key: key, id: id})
		if id > s.lastID {
			s.lastID = id
		}
	}

	s.loaded = len(s.rows)
	return nil
}

// Columns returns the key columns, in store order.
func (s *Store) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of keys known to the store.
func (s *Store) Len() int {
	return len(s.rows)
}

// Allocated returns the number of keys allocated since Open.
func (s *Store) Allocated() int {
	return len(s.rows) - s.loaded
}

func (s *Store) keyOf(f Fields) (ordering.NaturalKey, error) {
	if len(f) != len(s.columns) {
		return nil, s.columnError(f)
	}
	key := make(ordering.NaturalKey, len(s.columns))
	for i, col := range s.columns {
		v, ok := f[col]
		if !ok {
			return nil, s.columnError(f)
		}
		key[i] = v
	}
	return key, nil
}

func (s *Store) columnError(f Fields) error {
	return fmt.Errorf("%w: got %v, store %s expects %v", ErrUnknownColumn, f.names(), filepath.Base(s.path), s.columns)
}

// LookupOrAllocate returns the id of the key, allocating the next id when the key is new.
func (s *Store) LookupOrAllocate(f Fields) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	key, err := s.keyOf(f)
	if err != nil {
		return 0, err
	}

	k := key.String()
	if id, ok := s.index[k]; ok {
		return id, nil
	}

	s.lastID++
	s.index[k] = s.lastID
	s.rows = append(s.rows, entry{key: key, id: s.lastID})
	s.prepared = false
	return s.lastID, nil
}

// Lookup returns the id of a key that must already exist. It never allocates.
func (s *Store) Lookup(f Fields) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	key, err := s.keyOf(f)
	if err != nil {
		return 0, err
	}

	if id, ok := s.index[key.String()]; ok {
		return id, nil
	}
	return 0, &UnknownKeyError{Store: filepath.Base(s.path), Key: f}
}

// Prepare writes the store to a temporary file next to it when keys were allocated.
// A later Close only renames that file into place.
func (s *Store) Prepare() error {
	if s.closed {
		return ErrClosed
	}
	if s.prepared || s.Allocated() == 0 {
		return nil
	}
	if err := s.writeTemp(); err != nil {
		return err
	}
	s.prepared = true
	return nil
}

// Close writes the store back when keys were allocated, then releases it.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}

	if err := s.Prepare(); err != nil {
		s.release()
		return err
	}
	if s.prepared {
		if err := os.Rename(s.tmpPath(), s.path); err != nil {
			_ = os.Remove(s.tmpPath())
			s.release()
			return fmt.Errorf("failed to replace %s: %w", s.path, err)
		}
	}

	return s.release()
}

// Discard releases the store without writing it back.
func (s *Store) Discard() error {
	if s.closed {
		return nil
	}
	if s.prepared {
		_ = os.Remove(s.tmpPath())
	}
	return s.release()
}

func (s *Store) release() error {
	s.closed = true
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) tmpPath() string {
	return s.path + ".tmp"
}

func (s *Store) writeTemp() error {
	tmpFile := s.tmpPath()
	f, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpFile, err)
	}

	if err := s.encode(f); err != nil {
		f.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write %s: %w", tmpFile, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close %s: %w", tmpFile, err)
	}
	return nil
}

func (s *Store) encode(out io.Writer) error {
	w := csv.NewWriter(out)
	if err := w.Write(append(s.Columns(), IDColumn)); err != nil {
		return err
	}
	for _, e := range s.rows {
		if err := w.Write(append(append([]string(nil), e.key...), strconv.Itoa(e.id))); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
