package store

import "errors"

var (
	// ErrUnavailable wraps transport failures talking to the backend.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrDuplicateDocument is returned when a write targets an id that
	// already exists and the duplicate policy forbids it.
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrNotFound is returned when an operation names a document id the
	// collection does not hold.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidConfig is returned for malformed store configuration,
	// whether built in code or loaded from a file.
	ErrInvalidConfig = errors.New("invalid store config")
)
