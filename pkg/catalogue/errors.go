package catalogue

import "errors"

var (
	// ErrForbidden is returned when the authorization gate denies a write.
	// It deliberately carries no detail: callers must not be able to tell
	// bad credentials apart from a wrong space.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when no document exists for the given id.
	ErrNotFound = errors.New("service description not found")

	// ErrUnauthorizedToView collapses not-found and forbidden on the fetch
	// path into a single outward signal, so unprivileged callers cannot
	// probe which ids exist.
	ErrUnauthorizedToView = errors.New("unauthorized to view service description")
)
