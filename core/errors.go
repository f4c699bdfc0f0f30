package core

import "github.com/pkg/errors"

// FieldError describes a validation failure on one named field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries an error together with the per-field failures
// behind it, so handlers can render them back to the client.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals that the application cannot continue and should
// terminate gracefully.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err, at its cause, asks for termination.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
