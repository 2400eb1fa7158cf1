package errors

import (
	"fmt"
)

// ErrEmptySource is returned when a configuration source contains no
// document at all.
var ErrEmptySource = New("configuration source is empty")

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// InvalidFieldError represents a field whose value has the wrong shape and
// can't be defaulted, such as a list where a string was expected.
type InvalidFieldError struct {
	Field string
	Value interface{}
}

func (err InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value for field %s: %v", err.Field, err.Value)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// NotADirectory represents when a path expected to be a directory is a
// regular file or something else.
type NotADirectory struct {
	Path string
}

func (err NotADirectory) Error() string {
	return fmt.Sprintf("%q is not a directory", err.Path)
}
