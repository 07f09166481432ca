// Package errors provides domain-specific errors for the doc2code application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common domain error conditions.
var (
	ErrDocumentationRequired = errors.New("documentation required")
	ErrLanguageRequired      = errors.New("language required")
	ErrProviderRequired      = errors.New("ai provider required")
	ErrInvalidProvider       = errors.New("invalid AI provider")
	ErrMissingAPIKey         = errors.New("api key not set")
	ErrInvalidTokenLimit     = errors.New("invalid token limit")
	ErrInvalidOverlap        = errors.New("overlap must be smaller than chunk size")
	ErrEmptyCompletion       = errors.New("empty response from provider")
	ErrSessionIDRequired     = errors.New("session ID is required")
	ErrRateLimited           = errors.New("rate limit exceeded")
)

// ErrorCode categorizes errors for handling and reporting.
type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeProvider      ErrorCode = "PROVIDER"
	CodeConfiguration ErrorCode = "CONFIG"
	CodeRateLimit     ErrorCode = "RATE_LIMIT"
)

// Doc2CodeError wraps errors with additional context for debugging and handling.
type Doc2CodeError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error returns a formatted error string including the code, message, and cause if present.
func (e *Doc2CodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for use with errors.Is and errors.As.
func (e *Doc2CodeError) Unwrap() error {
	return e.Cause
}

// Detail returns the message and cause without the code prefix.
// This is the text surfaced to HTTP clients.
func (e *Doc2CodeError) Detail() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, causeDetail(e.Cause))
	}
	return e.Message
}

func causeDetail(err error) string {
	var de *Doc2CodeError
	if errors.As(err, &de) {
		return de.Detail()
	}
	return err.Error()
}

// NewError creates a new Doc2CodeError with the given code, message, and optional cause.
func NewError(code ErrorCode, message string, cause error) *Doc2CodeError {
	return &Doc2CodeError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds a key-value pair to the error's context and returns the error.
// This allows for method chaining when adding multiple context values.
func WithContext(err *Doc2CodeError, key string, value interface{}) *Doc2CodeError {
	if err.Context == nil {
		err.Context = make(map[string]interface{})
	}
	err.Context[key] = value
	return err
}

// CodeOf returns the code of the first Doc2CodeError in err's chain.
// Errors outside the taxonomy are reported as provider failures.
func CodeOf(err error) ErrorCode {
	var de *Doc2CodeError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeProvider
}

// Is reports whether err matches target using errors.Is semantics.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target and sets target to that error value.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Validation is shorthand for a CodeValidation error wrapping a sentinel.
func Validation(cause error) *Doc2CodeError {
	return NewError(CodeValidation, "validation failed", cause)
}
