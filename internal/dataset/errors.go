package dataset

import (
	"errors"
	"fmt"
)

// Load failure kinds.
var (
	ErrSourceNotFound   = errors.New("source file not found")
	ErrSourceUnreadable = errors.New("source file unreadable")
	ErrUnknownEncoding  = errors.New("unknown character encoding")
)

// LoadError describes why one source failed to load. It matches both its
// kind (ErrSourceNotFound or ErrSourceUnreadable) and the underlying cause
// with errors.Is.
type LoadError struct {
	Dataset string
	Path    string
	Kind    error
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Path, e.Dataset)
	}
	return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Path, e.Dataset, e.Err)
}

func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
