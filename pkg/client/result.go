package client

import "time"

// Meta carries call metadata alongside a result.
type Meta struct {
	// Duration is the total wall time of the call, including retries.
	Duration time.Duration `json:"duration_ms"`

	// StatusCode is the final upstream HTTP status, 0 when no response
	// was received.
	StatusCode int `json:"status_code,omitempty"`

	// NextPageToken is the upstream pagination cursor, empty on the
	// last page or for unpaginated calls.
	NextPageToken string `json:"next_page_token,omitempty"`
}

// Result is returned from every service-client call. Failures are carried
// as a typed error value; nothing escapes the pipeline as a panic.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Err     *Error `json:"error,omitempty"`
	Meta    Meta   `json:"meta"`
}

// Ok builds a successful result.
func Ok[T any](data T, meta Meta) Result[T] {
	return Result[T]{Success: true, Data: data, Meta: meta}
}

// Fail builds a failed result carrying a typed error.
func Fail[T any](err *Error, meta Meta) Result[T] {
	return Result[T]{Success: false, Err: err, Meta: meta}
}

// ValidationResult is returned by ValidateConfiguration. On failure it
// carries a human-actionable remediation suggestion.
type ValidationResult struct {
	IsValid    bool   `json:"is_valid"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Valid returns a passing validation result.
func Valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

// Invalid returns a failing validation result with a remediation suggestion.
func Invalid(errMsg, suggestion string) ValidationResult {
	return ValidationResult{IsValid: false, Error: errMsg, Suggestion: suggestion}
}
