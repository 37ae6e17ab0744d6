package adjustment

import (
	"errors"
	"fmt"
)

var ErrRowNotFound = errors.New("row not found")

// StorageError reports that the record store could not be read or written.
// A request that hits it must be aborted without writing.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
