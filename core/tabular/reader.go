package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned for a charset name with no decoder.
var ErrUnknownCharset = errors.New("unknown charset")

// Charset resolves the charset names used by source publications.
// The empty name and "utf-8" mean no transcoding.
func Charset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "utf-8-sig":
		return unicode.UTF8BOM, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharset, name)
	}
}

// ReaderOption configures a Reader.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	comma   rune
	charset encoding.Encoding
	header  func([]string) ([]string, error)
}

// WithComma sets the field delimiter (default ',').
func WithComma(comma rune) ReaderOption {
	return func(o *readerOptions) { o.comma = comma }
}

// WithCharset decodes the input from the given charset.
func WithCharset(enc encoding.Encoding) ReaderOption {
	return func(o *readerOptions) { o.charset = enc }
}

// WithHeaderMapper rewrites the header before it is used to key records, typically to
// map a source's column names onto canonical field names.
func WithHeaderMapper(mapper func([]string) ([]string, error)) ReaderOption {
	return func(o *readerOptions) { o.header = mapper }
}

// Reader streams Records from a header-bearing CSV input.
type Reader struct {
	csv    *csv.Reader
	header []string
	line   int
	closer io.Closer
}

// NewReader reads the header of r and returns a Reader positioned on the first row.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	o := readerOptions{comma: ','}
	for _, opt := range opts {
		opt(&o)
	}

	if o.charset != nil {
		r = transform.NewReader(r, o.charset.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.Comma = o.comma
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	if o.header != nil {
		if header, err = o.header(header); err != nil {
			return nil, err
		}
	}

	return &Reader{csv: cr, header: header, line: 1}, nil
}

// Open opens a CSV file; files ending in .xz are decompressed on the fly.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var in io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		in = xr
	}

	r, err := NewReader(in, opts...)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// Header returns the (mapped) column names.
func (r *Reader) Header() []string {
	return r.header
}

// Line returns the line number of the last row read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next row, or io.EOF.
func (r *Reader) Next() (Record, error) {
	fields, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	r.line++

	rec := make(Record, len(r.header))
	for i, name := range r.header {
		if i < len(fields) && name != "" {
			rec[name] = fields[i]
		}
	}
	return rec, nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
