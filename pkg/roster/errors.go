package roster

import "errors"

var (
	// ErrEmptyDataset is returned when the table has a header but no rows.
	ErrEmptyDataset = errors.New("roster: dataset has no rows")

	// ErrMissingColumn is returned when a configured column is not in the header.
	ErrMissingColumn = errors.New("roster: missing column")

	// ErrInvalidValue is returned when an attribute cell is empty or not a number.
	ErrInvalidValue = errors.New("roster: invalid attribute value")

	// ErrNoAttributes is returned when no numeric attribute column was found.
	ErrNoAttributes = errors.New("roster: no numeric attribute columns")
)
