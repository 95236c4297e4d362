// Package ratelimit throttles outbound API calls per resource with token buckets.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter keeps one token bucket per key ("books", "genres", ...).
// A limiter created with rps <= 0 never blocks.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	stopped  bool
}

// New creates a keyed limiter.
// rps: requests per second allowed per key; <= 0 disables throttling.
// burst: tokens available immediately.
func New(rps float64, burst int) *KeyedRateLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Enabled reports whether the limiter ever delays a call.
func (krl *KeyedRateLimiter) Enabled() bool {
	return krl.limit != rate.Inf
}

// Allow reports whether a call for key may proceed now, consuming a token if so.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a call for key is allowed or ctx is done.
// After Stop, Wait returns immediately without throttling.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	krl.mu.RLock()
	stopped := krl.stopped
	krl.mu.RUnlock()
	if stopped || !krl.Enabled() {
		return ctx.Err()
	}
	return krl.getLimiter(key).Wait(ctx)
}

// getLimiter returns the limiter for a key, creating one if needed.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	// Fast path: read lock
	krl.mu.RLock()
	limiter, exists := krl.limiters[key]
	krl.mu.RUnlock()

	if exists {
		return limiter
	}

	// Slow path: write lock to create
	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = krl.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(krl.limit, krl.burst)
	krl.limiters[key] = limiter
	return limiter
}

// Stop releases the per-key buckets. It is safe to call more than once.
func (krl *KeyedRateLimiter) Stop() {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	krl.stopped = true
	clear(krl.limiters)
}
