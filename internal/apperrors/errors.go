package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrStateConflict indicates the resource is not in the state required by the
// requested transition, or was modified concurrently. Callers may refetch and retry.
var ErrStateConflict = errors.New("state conflict")

// ErrPeriodClosed indicates a ledger mutation was attempted against a closed fiscal period.
var ErrPeriodClosed = errors.New("fiscal period closed")

// ErrIntegrity indicates a broken accounting invariant in stored data.
// It is never a user error.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrForbidden indicates the actor lacks the authority for the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal wraps unexpected infrastructure failures.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and a cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error wrapping ErrNotFound for the named resource.
func NewNotFoundError(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// NewValidationError returns an error wrapping ErrValidation with a formatted message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewDuplicateError returns an error wrapping ErrDuplicate for the named resource.
func NewDuplicateError(resource, key string) error {
	return fmt.Errorf("%w: %s %s", ErrDuplicate, resource, key)
}

// NewStateConflictError returns an error wrapping ErrStateConflict with a formatted message.
func NewStateConflictError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStateConflict, fmt.Sprintf(format, args...))
}

// NewPeriodClosedError reports that no open period accepts postings on the given date.
func NewPeriodClosedError(organizationID, date string) error {
	return fmt.Errorf("%w: no open fiscal period for organization %s on %s", ErrPeriodClosed, organizationID, date)
}

// NewIntegrityError returns an error wrapping ErrIntegrity.
func NewIntegrityError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}

// NewForbiddenError returns an error wrapping ErrForbidden.
func NewForbiddenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Message strips the sentinel prefix so handlers can surface the human readable part.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range []error{ErrValidation, ErrStateConflict, ErrPeriodClosed, ErrForbidden, ErrNotFound, ErrDuplicate} {
		prefix := sentinel.Error() + ": "
		msg := err.Error()
		if errors.Is(err, sentinel) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return err.Error()
}
