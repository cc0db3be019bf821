package store

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound is returned by GetTask when no row has the given id.
var ErrTaskNotFound = errors.New("task not found")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("task store closed")

// InitializationError reports that the database could not be opened or the
// schema could not be created. No operation can succeed until a later
// Initialize does.
type InitializationError struct {
	Path string
	Err  error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initializing task store %s: %v", e.Path, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// QueryError reports that a single statement failed.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
