// Package ratelimit paces YouTube Data API calls using a token bucket.
//
// Mutating playlist calls (playlistItems.insert/delete) are the quota-heavy
// part of a run, 50 units each. The limiter keeps a full run well below the
// burst behavior that triggers rateLimitExceeded responses.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket rate limiter for API call pacing.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// DefaultWriteRPS is the conservative default for mutating Data API calls.
const DefaultWriteRPS = 2.0

// New creates a limiter allowing rps requests per second with a burst of 1.
// An rps of 0 or less disables limiting.
func New(rps float64) *Limiter {
	if rps <= 0 {
		return &Limiter{}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next call is allowed or the context is done.
// A nil or disabled limiter never blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	lim := l.limiter
	l.mu.Unlock()
	if lim == nil {
		return nil
	}
	return lim.Wait(ctx)
}

// SetRate adjusts the allowed requests per second.
func (l *Limiter) SetRate(rps float64) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if rps <= 0 {
		l.limiter = nil
		return
	}
	if l.limiter == nil {
		l.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		return
	}
	l.limiter.SetLimit(rate.Limit(rps))
}
