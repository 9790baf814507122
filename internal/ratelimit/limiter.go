// Package ratelimit provides a fixed-window request counter for external
// services with free-tier quotas.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrRateLimited is matched by errors.Is against the typed *Error.
var ErrRateLimited = errors.New("rate limit exceeded")

// Error reports a denied call and how long the caller must wait before the
// window resets.
type Error struct {
	Wait time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.Wait.Round(time.Second))
}

func (e *Error) Unwrap() error { return ErrRateLimited }

// Status is a point-in-time view of the current window.
type Status struct {
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"resetTime"`
}

// Limiter counts requests in fixed windows: the counter resets whenever the
// elapsed time since the window start exceeds the window duration. Safe for
// concurrent callers; the mutex preserves the at-most-N-per-window invariant
// when the limiter is shared across requests.
type Limiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time

	now func() time.Time // injectable for tests
}

// New creates a limiter permitting limit requests per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow consumes one slot in the current window, or returns a *Error
// carrying the remaining wait when the window budget is spent.
func (l *Limiter) Allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.count == 0 || now.Sub(l.windowStart) > l.window {
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.limit {
		return &Error{Wait: l.windowStart.Add(l.window).Sub(now)}
	}

	l.count++
	return nil
}

// Status reports the remaining budget and when the current window resets.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	remaining := l.limit - l.count
	if now.Sub(l.windowStart) > l.window {
		remaining = l.limit
	}
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		Remaining: remaining,
		Reset:     l.windowStart.Add(l.window),
	}
}
