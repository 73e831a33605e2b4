package storage

import "errors"

// Common storage errors
var (
	// ErrNotFound indicates that no row matched
	ErrNotFound = errors.New("row not found")

	// ErrConflict indicates a unique constraint violation, e.g. a taken management number
	ErrConflict = errors.New("unique constraint violation")

	// ErrInvalidQuery indicates an unknown column or a malformed filter
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnknownTable indicates that the table is not exposed
	ErrUnknownTable = errors.New("unknown table")
)
