// Package client provides the generic external-service-client pattern:
// typed error classification, bounded exponential-backoff retry, credential
// validation and typed results. Every integration client is built on it.
package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies a service-client failure. The taxonomy is fixed
// across all integrations so a generic caller can react uniformly.
type ErrorType string

const (
	// ErrorTypeConfiguration indicates missing or malformed credentials
	// or client configuration, detected before any network call.
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"

	// ErrorTypeAPI indicates the upstream API rejected or failed the
	// request (4xx other than 429, or 5xx).
	ErrorTypeAPI ErrorType = "API"

	// ErrorTypeNetwork indicates a network-level failure (DNS, connect,
	// timeout) before any HTTP status was received.
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeValidation indicates caller-supplied input failed local
	// validation.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeRateLimit indicates a local or upstream rate limit breach
	// (HTTP 429 or a limiter block). The caller retries on its own schedule.
	ErrorTypeRateLimit ErrorType = "RATE_LIMIT"

	// ErrorTypeUnknown is the fallback classification.
	ErrorTypeUnknown ErrorType = "UNKNOWN"
)

// ErrRetryExhausted is wrapped into errors returned after all retry
// attempts are spent.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// Error is a typed service-client error. It is produced once at the point
// the failure is detected (inside the HTTP wrapper), never re-inferred
// downstream from message text.
type Error struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure is expected to resolve on its own
// and is therefore eligible for retry: HTTP 429, network failures, 5xx.
// Permanent failures (other 4xx, configuration, validation) are not retried.
func (e *Error) Transient() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeNetwork:
		return true
	case ErrorTypeAPI:
		return e.StatusCode >= 500
	default:
		return false
	}
}

// NewConfigurationError builds a CONFIGURATION error.
func NewConfigurationError(message string) *Error {
	return &Error{Type: ErrorTypeConfiguration, Message: message}
}

// NewValidationError builds a VALIDATION error.
func NewValidationError(message string) *Error {
	return &Error{Type: ErrorTypeValidation, Message: message}
}

// NewRateLimitError builds a RATE_LIMIT error for a local limiter block.
func NewRateLimitError(message string) *Error {
	return &Error{Type: ErrorTypeRateLimit, Message: message}
}

// classifyStatus converts an HTTP error status into a typed error.
// 429 maps to RATE_LIMIT; every other 4xx and all 5xx map to API, with
// retryability decided by Transient.
func classifyStatus(statusCode int, status string) *Error {
	if statusCode == http.StatusTooManyRequests {
		return &Error{
			Type:       ErrorTypeRateLimit,
			StatusCode: statusCode,
			Message:    status,
		}
	}
	return &Error{
		Type:       ErrorTypeAPI,
		StatusCode: statusCode,
		Message:    status,
	}
}

// classifyNetwork converts a transport-level failure into a typed error.
func classifyNetwork(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: "request failed before receiving a response",
		Err:     err,
	}
}
