package auth

import (
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter tracks a token-bucket limiter per key (client IP or
// user ID). Buckets are created on first use and never expire; the
// keyspace is bounded by the deployment's client population.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewKeyedRateLimiter creates a limiter allowing perMinute requests per
// key with a burst of the same size.
func NewKeyedRateLimiter(perMinute int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
	}
}

// Allow reports whether a request for the key may proceed
func (l *KeyedRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
