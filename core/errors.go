package core

import "github.com/pkg/errors"

// Error kinds shared by every component. Match them with errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrDispatchFailure  = errors.New("notification dispatch failed")
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
		return ErrInvalidInput.Error()
	}
	return err.Err.Error()
}

// Is makes every ValidationError an ErrInvalidInput.
func (err ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (err ValidationError) Unwrap() error { return err.Err }

// InvalidInput reports a single bad field as an ErrInvalidInput.
func InvalidInput(field, msg string) error {
	return NewValidationError(errors.New(msg), FieldError{Field: field, Error: msg})
}

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
