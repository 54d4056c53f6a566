// Package ratelimit paces outgoing probes with a token bucket. Probes within
// one search are serial anyway; the limiter matters when header and body
// searches share one connection pool concurrently, or when the target rate
// limits aggressively.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps a token bucket. A nil *Limiter never waits, so callers can
// thread an optional limiter without nil checks at every probe site.
type Limiter struct {
	bucket *rate.Limiter
}

// New creates a limiter allowing perSecond requests per second with the given
// burst. perSecond <= 0 returns nil (unlimited).
func New(perSecond, burst int) *Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until the next request may be sent or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.bucket == nil {
		return ctx.Err()
	}
	return l.bucket.Wait(ctx)
}
