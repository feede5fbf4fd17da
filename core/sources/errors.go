package sources

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSchemaField is matched by UnknownSchemaFieldError.
	ErrUnknownSchemaField = errors.New("unknown schema field")

	// ErrMissingSchemaField is returned when a required canonical field has no column.
	ErrMissingSchemaField = errors.New("missing schema field")

	// ErrUnknownSchema is returned for an unregistered schema name.
	ErrUnknownSchema = errors.New("unknown schema")
)

// UnknownSchemaFieldError reports a column absent from a source's known mapping.
type UnknownSchemaFieldError struct {
	Schema string
	Field  string
}

func (e *UnknownSchemaFieldError) Error() string {
	return fmt.Sprintf("%s: unknown column %q", e.Schema, e.Field)
}

// Is makes errors.Is(err, ErrUnknownSchemaField) match.
func (e *UnknownSchemaFieldError) Is(target error) bool {
	return target == ErrUnknownSchemaField
}
