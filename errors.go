package memogo

import "errors"

var (
	// ErrInvalidDocument indicates a persisted document without the expected
	// structure. Loads that hit it are logged and treated as "no cached
	// state available".
	ErrInvalidDocument = errors.New("memogo: invalid cache document")

	// ErrEmptyDataID is returned by New when no data id is given.
	ErrEmptyDataID = errors.New("memogo: data id must not be empty")

	// ErrInvalidVar is returned by New when a registered variable is not a
	// non-nil pointer.
	ErrInvalidVar = errors.New("memogo: registered variable must be a non-nil pointer")
)
