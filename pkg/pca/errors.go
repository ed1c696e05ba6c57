package pca

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewRows is returned when fewer than two rows are given. The sample
	// standard deviation is undefined for a single observation.
	ErrTooFewRows = errors.New("pca: at least two rows are required")

	// ErrNoAttributes is returned when the attribute matrix has no columns.
	ErrNoAttributes = errors.New("pca: no attribute columns")

	// ErrTooManyAttributes is returned when the column count exceeds Options.MaxAttributes.
	ErrTooManyAttributes = errors.New("pca: attribute count exceeds limit")

	// ErrDegenerateColumn is matched by every *DegenerateColumnError.
	ErrDegenerateColumn = errors.New("pca: degenerate column")

	// ErrDecompositionFailed is returned when the symmetric eigensolver does not converge.
	ErrDecompositionFailed = errors.New("pca: eigendecomposition failed")

	// ErrDimensionMismatch is returned when a row does not have one value per attribute.
	ErrDimensionMismatch = errors.New("pca: dimension mismatch")
)

// DegenerateColumnError reports an attribute with zero sample variance.
// Standardization divides by the column's standard deviation, so such a
// column would turn every coordinate into NaN.
type DegenerateColumnError struct {
	Column int
	Name   string
}

func (e *DegenerateColumnError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("pca: column %d (%q) has zero variance", e.Column, e.Name)
	}
	return fmt.Sprintf("pca: column %d has zero variance", e.Column)
}

// Is lets errors.Is(err, ErrDegenerateColumn) match.
func (e *DegenerateColumnError) Is(target error) bool {
	return target == ErrDegenerateColumn
}
