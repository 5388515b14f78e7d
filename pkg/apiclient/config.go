// Package apiclient issues single logical requests against the Canvas API:
// auth and version headers, per-attempt timeouts, retry on rate-limit and
// timeout, and translation of non-2xx responses into taxonomy errors.
package apiclient

import (
	"time"
)

// Config is the immutable per-invocation client configuration. It is built
// once by the config resolver and passed in; the client never reads ambient
// process state.
type Config struct {
	// BaseURL is the API origin, e.g. "https://api.canvas.dev".
	BaseURL string

	// Token is the bearer token. Empty means unauthenticated (OAuth token
	// exchange is the only endpoint that accepts that).
	Token string

	// APIVersion is sent on every request in the Canvas-Version header.
	APIVersion string

	// Timeout bounds each physical attempt, not the whole retry loop.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
}

// DefaultConfig returns the built-in defaults, overridden by profile, env
// and flags during config resolution.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.canvas.dev",
		APIVersion: "2025-09-03",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}
