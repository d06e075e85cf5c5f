// internal/config/types.go
package config

import (
	"net/url"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	// Server holds HTTP server configuration
	Server struct {
		// Address is the address to listen on
		Address string
		// ShutdownTimeout is the maximum time to wait for a graceful shutdown
		ShutdownTimeout time.Duration
	}

	// Metrics holds metrics server configuration
	Metrics struct {
		// Address is the address to listen on for the metrics server
		Address string
	}

	// TLS holds TLS configuration
	TLS struct {
		// Enabled indicates whether TLS is enabled
		Enabled bool
		// CertPath is the path to the TLS certificate
		CertPath string
		// KeyPath is the path to the TLS key
		KeyPath string
	}

	// Upstream holds configuration for the protected backend
	Upstream struct {
		// URL is the URL of the upstream service
		URL *url.URL
		// Timeout is the maximum time to wait for upstream responses
		Timeout time.Duration
	}

	// Auth holds authentication configuration
	Auth struct {
		// JWT holds bearer token configuration
		JWT struct {
			// Secret is the HMAC signing secret
			Secret string
			// Issuer is the iss claim on issued tokens
			Issuer string
			// TTL is the validity duration of issued tokens
			TTL time.Duration
		}

		// PublicPaths is a list of ant-style path patterns served without
		// authentication
		PublicPaths []string
	}

	// Store holds user store configuration
	Store struct {
		// Path is the SQLite database path
		Path string
	}

	// Observability holds observability configuration
	Observability struct {
		// LogLevel is the minimum log level to emit
		LogLevel string
	}
}
