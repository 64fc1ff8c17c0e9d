package odataquery

import "errors"

// Sentinel errors returned when parsing textual builder inputs.
// The builders themselves never fail; these errors only surface from the
// Parse helpers used by command line and file based front ends.
var (
	// ErrInvalidSortDirection indicates a direction other than asc or desc.
	ErrInvalidSortDirection = errors.New("odataquery: invalid sort direction")

	// ErrInvalidConnective indicates a clause connective other than and or or.
	ErrInvalidConnective = errors.New("odataquery: invalid connective")
)
