package sources

import (
	"fmt"
	"sort"
	"strings"

	"data-france/core/tabular"
)

// Schema maps the columns of one source onto canonical field names.
type Schema struct {
	Name    string
	Comma   rune
	Charset string

	fields   map[string]string
	ignored  map[string]bool
	optional map[string]bool
}

// Column declares a source column and the canonical field it maps to. An empty field
// means the column is known but ignored.
type Column struct {
	Source string
	Field  string
}

// NewSchema builds a schema. Column names are matched case-insensitively.
func NewSchema(name string, comma rune, columns ...Column) *Schema {
	s := &Schema{
		Name:     name,
		Comma:    comma,
		fields:   make(map[string]string),
		ignored:  make(map[string]bool),
		optional: make(map[string]bool),
	}
	for _, c := range columns {
		key := normalize(c.Source)
		if c.Field == "" {
			s.ignored[key] = true
			continue
		}
		s.fields[key] = c.Field
	}
	return s
}

// Optional marks canonical fields that may be absent from a vintage.
func (s *Schema) Optional(fields ...string) *Schema {
	for _, f := range fields {
		s.optional[f] = true
	}
	return s
}

// WithCharset sets the charset the source is published in.
func (s *Schema) WithCharset(charset string) *Schema {
	s.Charset = charset
	return s
}

// WithComma returns a copy of the schema using another delimiter.
func (s *Schema) WithComma(comma rune) *Schema {
	c := *s
	c.Comma = comma
	return &c
}

// Fields returns the canonical fields of the schema.
func (s *Schema) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range s.fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(column string) string {
	return strings.ToUpper(strings.TrimSpace(column))
}

// Map rewrites a source header into canonical field names. Ignored columns map to "".
func (s *Schema) Map(header []string) ([]string, error) {
	out := make([]string, len(header))
	present := make(map[string]bool)

	for i, column := range header {
		key := normalize(column)
		if field, ok := s.fields[key]; ok {
			out[i] = field
			present[field] = true
			continue
		}
		if s.ignored[key] {
			continue
		}
		return nil, &UnknownSchemaFieldError{Schema: s.Name, Field: column}
	}

	var missing []string
	for _, field := range s.Fields() {
		if !present[field] && !s.optional[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s lacks %s", ErrMissingSchemaField, s.Name, strings.Join(missing, ", "))
	}
	return out, nil
}

// Open opens a source file through the schema.
func (s *Schema) Open(path string) (*tabular.Reader, error) {
	opts := []tabular.ReaderOption{tabular.WithHeaderMapper(s.Map)}
	if s.Comma != 0 {
		opts = append(opts, tabular.WithComma(s.Comma))
	}
	if s.Charset != "" {
		enc, err := tabular.Charset(s.Charset)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tabular.WithCharset(enc))
	}
	return tabular.Open(path, opts...)
}

// canonical declares a prepared source whose columns already carry canonical names.
func canonical(name string, comma rune, fields ...string) *Schema {
	columns := make([]Column, len(fields))
	for i, f := range fields {
		columns[i] = Column{Source: f, Field: f}
	}
	return NewSchema(name, comma, columns...)
}
