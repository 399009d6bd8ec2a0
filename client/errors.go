// Package client is the consumer-side facade of the enhancement API.
// It validates inputs before any network call, normalizes every
// failure into a typed ServiceError, and hosts the edit-state machine
// and auto-save coordinator used by editing surfaces.
package client

import "fmt"

// Error codes carried by ServiceError.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNetworkError    = "NETWORK_ERROR"
	CodeServerError     = "SERVER_ERROR"
)

// ServiceError is the only error type that escapes the facade. A
// transport-level failure (no response at all) carries StatusCode 0
// and CodeNetworkError so callers can treat "could not reach the
// store" uniformly with HTTP failures.
type ServiceError struct {
	Message    string
	StatusCode int
	Code       string
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("enhancement service: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("enhancement service: %s (code %s)", e.Message, e.Code)
}

// IsNotFound reports whether err is a ServiceError with the not-found
// code.
func IsNotFound(err error) bool {
	serr, ok := err.(*ServiceError)
	return ok && serr.Code == CodeNotFound
}

func codeForStatus(status int) string {
	switch {
	case status == 404:
		return CodeNotFound
	case status == 401 || status == 403:
		return CodeUnauthorized
	case status >= 400 && status < 500:
		return CodeValidationError
	default:
		return CodeServerError
	}
}
