package contract

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"data-france/core/tabular"
	"data-france/feature/contract/models"
)

// ErrHeaderMismatch is returned when an artifact header differs from its table contract.
var ErrHeaderMismatch = errors.New("artifact header does not match contract")

// HeaderMismatchError describes an artifact whose columns drifted from its model.
type HeaderMismatchError struct {
	Table    string
	Expected []string
	Actual   []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("%s: expected columns %s, got %s", e.Table,
		strings.Join(e.Expected, ","), strings.Join(e.Actual, ","))
}

func (e *HeaderMismatchError) Is(target error) bool {
	return target == ErrHeaderMismatch
}

// CheckArtifact reads the header of the artifact at path and compares it, in order,
// with the columns of model.
func CheckArtifact(path string, model models.Model) error {
	r, err := tabular.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	expected := Names(Columns(model))
	if actual := r.Header(); !slices.Equal(expected, actual) {
		return &HeaderMismatchError{Table: model.TableName(), Expected: expected, Actual: actual}
	}
	return nil
}
