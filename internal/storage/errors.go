package storage

import "fmt"

// StorageError wraps a storage-layer I/O failure so callers can tell it apart
// from request-level problems. The store never retries; retries, if any, are
// the caller's decision.
type StorageError struct {
	Op  string
	Err error
}

// Error returns the failed operation and the underlying cause.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// newStorageError wraps err with the operation name.
func newStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
