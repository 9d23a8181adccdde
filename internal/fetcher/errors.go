package fetcher

import (
	"fmt"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeStatus indicates the upstream answered with a non-2xx status
	ErrorTypeStatus ErrorType = "status"
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeDecode indicates a 2xx response whose body is not valid JSON
	ErrorTypeDecode ErrorType = "decode"
)

// FetchError represents a structured error from a fetch operation
type FetchError struct {
	Type       ErrorType
	Code       string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Recoverable reports whether the error is folded into a Failure entry
// instead of failing the whole aggregate request.
func (e *FetchError) Recoverable() bool {
	return e.Type == ErrorTypeStatus || e.Type == ErrorTypeNetwork
}

// Diagnostic returns the text placed in the "error" field of a Failure.
func (e *FetchError) Diagnostic() string {
	switch e.Type {
	case ErrorTypeStatus:
		return fmt.Sprintf("Failed to fetch: %d", e.StatusCode)
	case ErrorTypeNetwork:
		return "Fetch failed: " + e.Message
	default:
		return e.Message
	}
}

// NewStatusError creates an error for a non-2xx upstream response
func NewStatusError(code string, statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrorTypeStatus,
		Code:       code,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("upstream returned status %d", statusCode),
	}
}

// NewNetworkError creates a network error carrying the cause's message
func NewNetworkError(code string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNetwork,
		Code:    code,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// NewDecodeError creates an error for an unparseable 2xx body
func NewDecodeError(code string, cause error) *FetchError {
	msg := fmt.Sprintf("invalid JSON in upstream response for %s", code)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &FetchError{
		Type:    ErrorTypeDecode,
		Code:    code,
		Message: msg,
		Cause:   cause,
	}
}
