package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeInvalid             ErrorCode = "INVALID"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamFormat      ErrorCode = "UPSTREAM_FORMAT"
	ErrCodeInternal            ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	// ErrTaskNotFound covers both a missing id and an id owned by another
	// user. The two cases must stay indistinguishable to the caller.
	ErrTaskNotFound = NewError(ErrCodeNotFound, "task not found")
	ErrUserNotFound = NewError(ErrCodeNotFound, "user not found")

	ErrMissingDueDate = NewError(ErrCodeInvalid, "due date is required")
	ErrInvalidDueDate = NewError(ErrCodeInvalid, "invalid due date")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")

	ErrUsernameTaken      = NewError(ErrCodeConflict, "username already exists")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid credentials")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")

	// Extraction oracle failures. Unavailable is retryable by the caller,
	// a format failure is not: resubmitting the same text will likely fail
	// the same way.
	ErrExtractionUnavailable = NewError(ErrCodeUpstreamUnavailable, "extraction service unavailable")
	ErrExtractionFormat      = NewError(ErrCodeUpstreamFormat, "extraction service returned an unparseable response")
)

// NewValidationError reports a structurally invalid candidate field.
func NewValidationError(field string) *Error {
	return NewError(ErrCodeInvalid, fmt.Sprintf("invalid value for field %q", field))
}

// NewStorageError classifies a persistence medium failure.
func NewStorageError(err error) *Error {
	return WrapError(ErrCodeInternal, "storage failure", err)
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
