package client

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with status code",
			err:      &Error{Type: ErrorTypeAPI, StatusCode: 400, Message: "400 Bad Request"},
			expected: "API error (status 400): 400 Bad Request",
		},
		{
			name:     "without status code",
			err:      &Error{Type: ErrorTypeConfiguration, Message: "missing API key"},
			expected: "CONFIGURATION error: missing API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &Error{Type: ErrorTypeNetwork, Message: "request failed", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestError_Transient(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		transient bool
	}{
		{"rate limit", &Error{Type: ErrorTypeRateLimit, StatusCode: 429}, true},
		{"network", &Error{Type: ErrorTypeNetwork}, true},
		{"server 500", &Error{Type: ErrorTypeAPI, StatusCode: 500}, true},
		{"server 503", &Error{Type: ErrorTypeAPI, StatusCode: 503}, true},
		{"client 400", &Error{Type: ErrorTypeAPI, StatusCode: 400}, false},
		{"client 404", &Error{Type: ErrorTypeAPI, StatusCode: 404}, false},
		{"configuration", &Error{Type: ErrorTypeConfiguration}, false},
		{"validation", &Error{Type: ErrorTypeValidation}, false},
		{"unknown", &Error{Type: ErrorTypeUnknown}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Transient(); got != tt.transient {
				t.Errorf("Transient() = %v, want %v", got, tt.transient)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		wantType   ErrorType
	}{
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusBadRequest, ErrorTypeAPI},
		{http.StatusNotFound, ErrorTypeAPI},
		{http.StatusInternalServerError, ErrorTypeAPI},
		{http.StatusBadGateway, ErrorTypeAPI},
	}

	for _, tt := range tests {
		err := classifyStatus(tt.statusCode, http.StatusText(tt.statusCode))
		if err.Type != tt.wantType {
			t.Errorf("classifyStatus(%d).Type = %s, want %s", tt.statusCode, err.Type, tt.wantType)
		}
		if err.StatusCode != tt.statusCode {
			t.Errorf("classifyStatus(%d).StatusCode = %d", tt.statusCode, err.StatusCode)
		}
	}
}

func TestClassifyNetwork(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := classifyNetwork(inner)

	if err.Type != ErrorTypeNetwork {
		t.Errorf("Type = %s, want NETWORK", err.Type)
	}
	if !errors.Is(err, inner) {
		t.Error("classified error should wrap the original")
	}
}
