package ingest

import (
	"errors"
	"fmt"
)

// ErrFileRead is matched by every error returned from this package.
var ErrFileRead = errors.New("file read error")

// FileReadError describes why a file could not be turned into text.
type FileReadError struct {
	// Name is the file name as given by the caller.
	Name string

	// Reason is a short, user-presentable description.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *FileReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot read %q: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot read %q: %s", e.Name, e.Reason)
}

// Unwrap exposes both ErrFileRead and the underlying cause.
func (e *FileReadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFileRead, e.Err}
	}
	return []error{ErrFileRead}
}

func readError(name, reason string, err error) *FileReadError {
	return &FileReadError{Name: name, Reason: reason, Err: err}
}
