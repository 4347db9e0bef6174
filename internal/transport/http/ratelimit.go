package http

import (
	"sync"
	"time"
)

// rateLimiter allows up to limit requests per key within each window.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*bucket
}

type bucket struct {
	counter int
	resetAt time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	if limit <= 0 {
		return &rateLimiter{limit: 0}
	}
	return &rateLimiter{
		limit:   limit,
		window:  time.Minute,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (r *rateLimiter) allow(key string) bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(r.window)}
		r.buckets[key] = b
		r.prune(now)
	}
	b.counter++
	return b.counter <= r.limit
}

// prune drops expired buckets so idle clients do not accumulate.
func (r *rateLimiter) prune(now time.Time) {
	for key, b := range r.buckets {
		if !now.Before(b.resetAt) {
			delete(r.buckets, key)
		}
	}
}
