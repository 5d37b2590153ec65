package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for type checking
var (
	ErrDecode = errors.New("decode failed")
	ErrIO     = errors.New("io failed")
)

// DecodeError indicates a record file could not be decoded. During the
// startup scan these are skipped; during an explicit import they propagate.
type DecodeError struct {
	Path string // The file that failed to decode
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed record %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// IOError indicates a filesystem operation failed.
type IOError struct {
	Op   string // "read", "write", "delete", "copy", "mkdir"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return ErrIO
}

// Helper constructors for common cases

func Decode(path string, err error) error {
	return &DecodeError{Path: path, Err: err}
}

func IO(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsIO checks if an error is an IO error.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}
