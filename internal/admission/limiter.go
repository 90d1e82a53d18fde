// Package admission provides the short-window request throttle that sits in
// front of the quota ledger. It protects provider budget from bursts even
// when the caller still has quota remaining, so its rejections must surface
// as "too many requests", never as quota exhaustion.
package admission

import (
	"strings"
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a per-key token bucket. Counters are process-local; under
// horizontal scaling each instance throttles independently, which is at
// least as strict as a shared counter for any single instance's traffic.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	burst   float64
	window  time.Duration
	now     func() time.Time
}

// NewLimiter allows up to burst requests per window per key.
func NewLimiter(burst int, window time.Duration) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		burst:   float64(burst),
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether a request for the given key may proceed now.
func (l *Limiter) Allow(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, last: now}
		l.buckets[key] = b
	}

	refill := now.Sub(b.last).Seconds() * l.burst / l.window.Seconds()
	b.tokens += refill
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
