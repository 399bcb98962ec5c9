package client

import (
	"net/url"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name        string
		rawURL      string
		mustHide    []string
		mustContain []string
	}{
		{
			name:        "api key in query",
			rawURL:      "https://www.googleapis.com/youtube/v3/search?part=snippet&key=AIzaSecretValue123",
			mustHide:    []string{"AIzaSecretValue123"},
			mustContain: []string{"key=REDACTED", "part=snippet"},
		},
		{
			name:        "multiple credentials",
			rawURL:      "https://api.example.com/feed?api_key=abc123secret&access_token=tok456secret",
			mustHide:    []string{"abc123secret", "tok456secret"},
			mustContain: []string{"api_key=REDACTED", "access_token=REDACTED"},
		},
		{
			name:        "no credentials untouched",
			rawURL:      "https://api.github.com/users/octocat/repos?sort=updated&per_page=10",
			mustContain: []string{"sort=updated", "per_page=10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			got := RedactURL(u)

			for _, secret := range tt.mustHide {
				if strings.Contains(got, secret) {
					t.Errorf("RedactURL leaked %q in %q", secret, got)
				}
			}
			for _, want := range tt.mustContain {
				if !strings.Contains(got, want) {
					t.Errorf("RedactURL output %q missing %q", got, want)
				}
			}

			// The original URL must not be mutated.
			if strings.Contains(tt.rawURL, "key=AIza") && !strings.Contains(u.String(), "AIzaSecretValue123") {
				t.Error("RedactURL mutated the input URL")
			}
		})
	}
}

func TestRedactURL_Nil(t *testing.T) {
	if got := RedactURL(nil); got != "" {
		t.Errorf("RedactURL(nil) = %q, want empty", got)
	}
}

func TestRedactCredential(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ghp_1234567890abcdef", "ghp_..."},
		{"abc", "REDACTED"},
		{"", "REDACTED"},
	}

	for _, tt := range tests {
		if got := RedactCredential(tt.input); got != tt.expected {
			t.Errorf("RedactCredential(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRedactHeader(t *testing.T) {
	if !RedactHeader("Authorization") {
		t.Error("Authorization header should be redacted")
	}
	if !RedactHeader("X-Api-Key") {
		t.Error("X-Api-Key header should be redacted")
	}
	if RedactHeader("Accept") {
		t.Error("Accept header should not be redacted")
	}
}
