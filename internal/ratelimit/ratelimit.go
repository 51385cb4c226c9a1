package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between outbound calls. Every component
// that performs network I/O (page fetch, asset fetch, model call) shares one
// instance so the spacing holds across the whole process. There is no queueing
// or priority: the first caller past the gate proceeds.
type Limiter struct {
	inner *rate.Limiter
}

// New returns a limiter that permits one call per interval. A zero or negative
// interval disables limiting.
func New(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{}
	}
	return &Limiter{inner: rate.NewLimiter(rate.Every(interval), 1)}
}

// Acquire blocks until the next call is permitted or ctx is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil || l.inner == nil {
		return nil
	}
	return l.inner.Wait(ctx)
}
