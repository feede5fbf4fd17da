package tabular

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Writer writes a header-bearing CSV artifact to a temporary file.
type Writer struct {
	path    string
	tmp     string
	columns []string
	file    *os.File
	buf     *bufio.Writer
	xz      *xz.Writer
	csv     *csv.Writer
	rows    int
	done    bool
}

// Create opens <path>.tmp and writes the header. Paths ending in .xz are compressed.
func Create(path string, columns ...string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, err
	}

	w := &Writer{path: path, tmp: tmp, columns: columns, file: f}
	w.buf = bufio.NewWriter(f)

	var out io.Writer = w.buf
	if strings.HasSuffix(path, ".xz") {
		if w.xz, err = xz.NewWriter(w.buf); err != nil {
			f.Close()
			os.Remove(tmp)
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
		out = w.xz
	}
	w.csv = csv.NewWriter(out)

	if err := w.csv.Write(columns); err != nil {
		w.Abort()
		return nil, err
	}
	return w, nil
}

// Path returns the final artifact path.
func (w *Writer) Path() string {
	return w.path
}

// Columns returns the header.
func (w *Writer) Columns() []string {
	return w.columns
}

// Rows returns the number of rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Write appends one row; its width must match the header.
func (w *Writer) Write(values ...string) error {
	if w.done {
		return errors.New("write to finished artifact")
	}
	if len(values) != len(w.columns) {
		return fmt.Errorf("%s: row has %d values for %d columns", filepath.Base(w.path), len(values), len(w.columns))
	}
	if err := w.csv.Write(values); err != nil {
		return err
	}
	w.rows++
	return nil
}

// WriteRecord appends a Record, emitting Null for missing columns.
func (w *Writer) WriteRecord(rec Record) error {
	values := make([]string, len(w.columns))
	for i, c := range w.columns {
		v, ok := rec[c]
		if !ok {
			v = Null
		}
		values[i] = v
	}
	return w.Write(values...)
}

func (w *Writer) flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}
	if w.xz != nil {
		if err := w.xz.Close(); err != nil {
			return err
		}
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if err := w.file.Sync(); err != nil {
		return err
	}
	return w.file.Close()
}

// Commit flushes the artifact and renames it into place.
func (w *Writer) Commit() error {
	if w.done {
		return nil
	}
	w.done = true

	if err := w.flush(); err != nil {
		w.file.Close()
		os.Remove(w.tmp)
		return fmt.Errorf("failed to write %s: %w", w.path, err)
	}
	if err := os.Rename(w.tmp, w.path); err != nil {
		os.Remove(w.tmp)
		return fmt.Errorf("failed to commit %s: %w", w.path, err)
	}
	return nil
}

// Abort drops the temporary file; the previous artifact, if any, is left untouched.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	w.file.Close()
	if err := os.Remove(w.tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
