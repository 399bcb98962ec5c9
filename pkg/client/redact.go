package client

import (
	"net/url"
	"strings"
)

// sensitiveParams are query parameter names whose values carry credentials
// and must never reach a log line.
var sensitiveParams = []string{
	"key",
	"api_key",
	"apikey",
	"token",
	"access_token",
	"client_secret",
}

const redactedValue = "REDACTED"

// RedactURL returns a loggable copy of the URL with credential-bearing
// query parameter values replaced. The input URL is not modified.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	query := u.Query()
	changed := false
	for _, param := range sensitiveParams {
		if query.Has(param) {
			query.Set(param, redactedValue)
			changed = true
		}
	}

	if !changed {
		return u.String()
	}

	clone := *u
	clone.RawQuery = query.Encode()
	return clone.String()
}

// RedactCredential returns a loggable form of a credential: the first four
// characters followed by an ellipsis, or the full redaction marker for
// short values.
func RedactCredential(cred string) string {
	if len(cred) <= 4 {
		return redactedValue
	}
	return cred[:4] + "..."
}

// RedactHeader reports whether a request header must be dropped from logs.
func RedactHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "x-api-key":
		return true
	}
	return false
}
