// Package storage persists aggregation artifacts: JSON/HTML snapshots,
// run records, and the playlist ID file.
package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested artifact was not found.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidInput indicates invalid or malformed input was provided.
	ErrInvalidInput = errors.New("storage: invalid input")
	// ErrCorrupt indicates a snapshot could not be parsed.
	ErrCorrupt = errors.New("storage: snapshot corrupt")
)

// StorageError wraps storage errors with operation and artifact context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.Path, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("read", "write", "backup", "render").
	Op string
	// Path is the artifact path involved.
	Path string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }
