// Package ratelimit implements the request gate shared by every outbound Bitstamp call.
//
// The gate keeps a fixed-capacity log of admission timestamps and compares each new
// call against the single oldest entry. This approximates a sliding window: it can
// admit slightly more or fewer calls than a continuous recount near window boundaries,
// and that behaviour is kept as is.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"stampgo/pkg/core"
)

const (
	// DefaultLimit is Bitstamp's published request quota.
	DefaultLimit = 600
	// DefaultWindow is the interval DefaultLimit applies to.
	DefaultWindow = 600 * time.Second
)

// Gate admits or rejects outbound calls so that at most limit admissions fall within
// any trailing window. It never sleeps; rejections carry a wait hint instead.
type Gate struct {
	mu      sync.Mutex
	history []time.Time // ring buffer, capacity == limit
	head    int         // index of the oldest entry
	size    int

	limit   int
	window  time.Duration
	enabled atomic.Bool
	now     func() time.Time
	metrics *Metrics
}

// Metrics tracks statistics about gate usage.
type Metrics struct {
	totalRequests    atomic.Int64
	admittedRequests atomic.Int64
	rejectedRequests atomic.Int64
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// WithEnabled sets the initial state of the on/off switch.
func WithEnabled(enabled bool) Option {
	return func(g *Gate) {
		g.enabled.Store(enabled)
	}
}

// New creates a Gate allowing limit admissions per window. A limit below one is
// treated as one.
func New(limit int, window time.Duration, opts ...Option) *Gate {
	if limit < 1 {
		limit = 1
	}
	g := &Gate{
		history: make([]time.Time, limit),
		limit:   limit,
		window:  window,
		now:     time.Now,
		metrics: &Metrics{},
	}
	g.enabled.Store(true)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGate = New(DefaultLimit, DefaultWindow)

// Default returns the process-wide gate used by clients that are not given their own.
func Default() *Gate {
	return defaultGate
}

// Admit records the call and returns nil, or returns *core.QuotaExceededError and
// leaves the history untouched. Callers must invoke it immediately before issuing
// each request.
func (g *Gate) Admit() error {
	if !g.enabled.Load() {
		return nil
	}
	g.metrics.totalRequests.Add(1)

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.size < g.limit {
		g.push(now)
		g.metrics.admittedRequests.Add(1)
		return nil
	}

	oldest := g.history[g.head]
	elapsed := now.Sub(oldest)
	if elapsed > g.window {
		// Full ring: overwriting the head evicts the oldest entry.
		g.history[g.head] = now
		g.head = (g.head + 1) % g.limit
		g.metrics.admittedRequests.Add(1)
		return nil
	}

	g.metrics.rejectedRequests.Add(1)
	return &core.QuotaExceededError{
		Limit:      g.limit,
		Window:     g.window,
		TimeToWait: g.window - elapsed,
	}
}

func (g *Gate) push(t time.Time) {
	g.history[(g.head+g.size)%g.limit] = t
	g.size++
}

// SetEnabled flips the on/off switch. While disabled, Admit always succeeds and does
// no bookkeeping.
func (g *Gate) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

// Enabled reports the current state of the on/off switch.
func (g *Gate) Enabled() bool {
	return g.enabled.Load()
}

// Limit returns the configured number of admissions per window.
func (g *Gate) Limit() int {
	return g.limit
}

// Window returns the configured rolling interval.
func (g *Gate) Window() time.Duration {
	return g.window
}

// Len returns the number of timestamps currently held.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.size
}

// Oldest returns the oldest recorded admission, if any.
func (g *Gate) Oldest() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.size == 0 {
		return time.Time{}, false
	}
	return g.history[g.head], true
}

// Reset drops the whole history.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	clear(g.history)
	g.head = 0
	g.size = 0
}

// Metrics returns a snapshot of the current gate statistics.
func (g *Gate) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:    g.metrics.totalRequests.Load(),
		AdmittedRequests: g.metrics.admittedRequests.Load(),
		RejectedRequests: g.metrics.rejectedRequests.Load(),
		InWindow:         g.Len(),
	}
}

// MetricsSnapshot is a point-in-time capture of gate statistics.
type MetricsSnapshot struct {
	// TotalRequests is the number of admission checks performed while enabled.
	TotalRequests int64
	// AdmittedRequests is the number of calls that were admitted.
	AdmittedRequests int64
	// RejectedRequests is the number of calls rejected with a quota error.
	RejectedRequests int64
	// InWindow is the number of timestamps currently recorded.
	InWindow int
}
