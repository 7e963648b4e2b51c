package bitstamp

import (
	"time"

	"stampgo/internal/ratelimit"
)

// Gate is the request gate every call is admitted through. See NewGate and DefaultGate.
type Gate = ratelimit.Gate

// NewGate returns an isolated gate allowing limit calls per window, for callers that
// must not share the process-wide history (tests, separate API quotas).
func NewGate(limit int, window time.Duration, opts ...ratelimit.Option) *Gate {
	return ratelimit.New(limit, window, opts...)
}

// DefaultGate returns the process-wide gate: 600 requests per 600 seconds.
func DefaultGate() *Gate {
	return ratelimit.Default()
}

// SetRateLimitEnabled turns the process-wide gate on or off. While off, calls are sent
// without any quota bookkeeping.
func SetRateLimitEnabled(enabled bool) {
	ratelimit.Default().SetEnabled(enabled)
}
