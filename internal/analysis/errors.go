package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumn indicates a metric needs a column the recordings lack.
	ErrMissingColumn = errors.New("missing required columns")
	// ErrShapeMismatch indicates two point arrays differ in length.
	ErrShapeMismatch = errors.New("point arrays differ in shape")
)

// ValidationError reports a failed precondition on the input table.
type ValidationError struct {
	Exercise string
	Missing  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Exercise, ErrMissingColumn, strings.Join(e.Missing, ", "))
}

// Unwrap lets errors.Is match ErrMissingColumn.
func (e *ValidationError) Unwrap() error { return ErrMissingColumn }

func missingColumns(exercise string, missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Exercise: exercise, Missing: missing}
}
