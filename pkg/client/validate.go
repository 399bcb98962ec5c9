package client

import (
	"fmt"
	"strings"
)

// placeholderValues are credential values left over from documentation or
// templates. They pass shape checks by accident, so they are rejected
// explicitly before any network call.
var placeholderValues = []string{
	"your-api-key-here",
	"your_api_key",
	"your-token-here",
	"changeme",
	"placeholder",
	"example",
	"xxx",
}

// IsPlaceholder reports whether a credential matches a known placeholder
// pattern.
func IsPlaceholder(cred string) bool {
	lower := strings.ToLower(strings.TrimSpace(cred))
	if lower == "" {
		return false
	}
	if strings.HasPrefix(lower, "<") {
		return true
	}
	for _, p := range placeholderValues {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CheckCredential validates the shape of a credential before any network
// call: presence, placeholder rejection, then an optional expected prefix
// and minimum length. The name is used in the remediation suggestion.
func CheckCredential(name, cred, expectedPrefix string, minLength int) ValidationResult {
	if strings.TrimSpace(cred) == "" {
		return Invalid(
			fmt.Sprintf("%s is not configured", name),
			fmt.Sprintf("Set the %s credential in the service configuration.", name),
		)
	}

	if IsPlaceholder(cred) {
		return Invalid(
			fmt.Sprintf("%s is a placeholder value", name),
			fmt.Sprintf("Replace the %s placeholder with a real credential issued by the provider.", name),
		)
	}

	if expectedPrefix != "" && !strings.HasPrefix(cred, expectedPrefix) {
		return Invalid(
			fmt.Sprintf("%s has an unexpected format", name),
			fmt.Sprintf("A valid %s starts with %q. Verify the credential was copied completely.", name, expectedPrefix),
		)
	}

	if minLength > 0 && len(cred) < minLength {
		return Invalid(
			fmt.Sprintf("%s is too short", name),
			fmt.Sprintf("A valid %s is at least %d characters. Verify the credential was copied completely.", name, minLength),
		)
	}

	return Valid()
}
