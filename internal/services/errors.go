package services

import "errors"

// Service errors
var (
	// ErrDataUnavailable wraps the cached load failure. Every request after a
	// failed load sees it until the process restarts.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInvalidQuery is returned for inputs the handlers could not reject
	// up front, such as an unregistered export format.
	ErrInvalidQuery = errors.New("invalid query")
)
