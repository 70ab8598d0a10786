package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Logger is the logging surface the client writes diagnostics to.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger routes request diagnostics to logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBasePath overrides the "/api" prefix every endpoint lives under.
func WithBasePath(path string) Option {
	return func(c *Client) {
		c.basePath = "/" + strings.Trim(path, "/")
		if c.basePath == "/" {
			c.basePath = ""
		}
	}
}

// WithContractValidation checks outgoing request bodies against the embedded
// REST contract before they are sent.
func WithContractValidation() Option {
	return func(c *Client) {
		c.validate = true
	}
}

// WithRequestIDFunc overrides how X-Request-ID values are generated.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

func defaultLogger() Logger {
	return slog.Default()
}
