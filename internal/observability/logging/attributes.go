// internal/observability/logging/attributes.go
package logging

import (
	"log/slog"
	"net/url"
)

// RedactedURL wraps a url.URL for logging without exposing credentials
type RedactedURL struct {
	url *url.URL
}

// LogValue implements slog.LogValuer to avoid revealing passwords
func (u RedactedURL) LogValue() slog.Value {
	return slog.StringValue(u.url.Redacted())
}

// RedactURL returns a safely loggable URL value
func RedactURL(url *url.URL) RedactedURL {
	return RedactedURL{url: url}
}
