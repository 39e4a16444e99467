package core

import "github.com/pkg/errors"

var (
	// ErrNotFound is wrapped by every "entity not found" error of the domain packages.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument reports a caller-supplied value outside its domain (non-positive day, unknown step...).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidConfiguration reports malformed static data or settings; fatal at startup.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
