package leads

import (
	"errors"
	"fmt"
)

var (
	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrRequestNotFound is returned when a request is not found
	ErrRequestNotFound = errors.New("request not found")

	// ErrStorageUnavailable wraps store connectivity/write failures.
	// Callers may retry; this service does not.
	ErrStorageUnavailable = errors.New("lead store unavailable")
)

// ErrorCategory classifies submission failures on the wire.
type ErrorCategory string

const (
	CategoryInvalidArgument   ErrorCategory = "invalid-argument"
	CategoryResourceExhausted ErrorCategory = "resource-exhausted"
	CategoryInternal          ErrorCategory = "internal"
)

// CaptureError is a categorized submission failure. Internal detail
// (wrapped errors) is logged but never serialized to the caller.
type CaptureError struct {
	Category ErrorCategory
	Field    string
	Message  string
	wrapped  error
}

func (e *CaptureError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Category, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *CaptureError) Unwrap() error { return e.wrapped }

func invalidArgument(field, message string) *CaptureError {
	return &CaptureError{Category: CategoryInvalidArgument, Field: field, Message: message}
}

func rateLimited() *CaptureError {
	return &CaptureError{Category: CategoryResourceExhausted, Message: "too many requests, try again later"}
}

func internalError(err error) *CaptureError {
	return &CaptureError{Category: CategoryInternal, Message: "request could not be processed", wrapped: err}
}
