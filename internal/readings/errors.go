package readings

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage error")
	// ErrSchemaCreation is returned by EnsureSchema when the table cannot be created.
	ErrSchemaCreation = errors.New("schema creation failed")
	// ErrInvalidReading marks a StorageError for a reading that can never be
	// stored; such errors match ErrStorage too.
	ErrInvalidReading = errors.New("invalid reading")
)

// StorageError reports a failure of the underlying medium during Append or Query.
type StorageError struct {
	Op   string
	Pool string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Pool == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Pool, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
