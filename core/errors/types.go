// ABOUTME: Custom error types for the core business logic
// ABOUTME: Separates caller mistakes, upstream failures and malformed feeds for API mapping

package errors

import (
	"errors"
	"fmt"
)

// ValidationError represents a missing or malformed request parameter
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// UpstreamError represents a transport failure or non-2xx answer from the article index.
// StatusCode is 0 when no HTTP response was received.
type UpstreamError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream error from %s: %s", e.API, e.Message)
	}
	return fmt.Sprintf("upstream error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// FormatError represents a feed whose shape could not be turned into articles
type FormatError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("format error: %s", e.Message)
	}
	return fmt.Sprintf("format error: %s: %v", e.Message, e.Err)
}

// Unwrap returns the underlying parse error
func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsUpstream checks if an error is an UpstreamError
func IsUpstream(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}

// IsFormat checks if an error is a FormatError
func IsFormat(err error) bool {
	var formatErr *FormatError
	return errors.As(err, &formatErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
