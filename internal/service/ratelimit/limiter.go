package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter keeps one token bucket per key.
type Limiter struct {
	mu    sync.Mutex
	m     map[string]*entry
	rps   rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time
}

// New builds a limiter granting rps requests per second with the given burst
// to every key. Keys idle for longer than idle are evicted on access.
func New(rps float64, burst int, idle time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &Limiter{
		m:     make(map[string]*entry),
		rps:   rate.Limit(rps),
		burst: burst,
		idle:  idle,
		now:   time.Now,
	}
}

// Allow reports whether one request for key may proceed now.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	e, ok := l.m[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.m[key] = e
	}
	e.seen = now
	l.evict(now)
	l.mu.Unlock()
	return e.lim.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// evict must be called with the mutex held.
func (l *Limiter) evict(now time.Time) {
	for k, e := range l.m {
		if now.Sub(e.seen) > l.idle {
			delete(l.m, k)
		}
	}
}
