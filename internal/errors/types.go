package errors

import (
	"fmt"
	"time"
)

// FieldError is one malformed input field, surfaced to the client.
type FieldError struct {
	Field   string `json:"param"`
	Message string `json:"msg"`
}

// ValidationError aggregates per-field input problems.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e.Fields[0].Message)
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// LockedError reports an active lockout and when it lifts.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string { return ErrAccountLocked.Error() }

func (e *LockedError) Unwrap() error { return ErrAccountLocked }

// CredentialsError wraps an authentication failure with the number of
// attempts left before the client key locks.
type CredentialsError struct {
	Reason            error
	RemainingAttempts int
}

func (e *CredentialsError) Error() string { return e.Reason.Error() }

func (e *CredentialsError) Unwrap() error { return e.Reason }
