package store

import "fmt"

// DuplicateError reports an attempt to append a record whose exercise id is
// already present in the output store. This is a caller error, not a storage
// failure.
type DuplicateError struct {
	ID int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("record for exercise %d already exists", e.ID)
}

// WriteError reports a failed persist. The in-memory state of the store
// remains valid; the affected update is simply not durable.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
