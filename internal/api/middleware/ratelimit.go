package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorTTL = 5 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks request rates per client IP. Idle entries are swept
// on access so the map stays bounded by the active client set.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// NewRateLimiter creates a per-IP limiter allowing rps requests per second
// with the given burst capacity.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request from addr may proceed.
func (l *RateLimiter) Allow(addr string) bool {
	now := time.Now()

	l.mu.Lock()
	v, ok := l.visitors[addr]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[addr] = v
	}
	v.lastSeen = now
	for key, vv := range l.visitors {
		if now.Sub(vv.lastSeen) > visitorTTL {
			delete(l.visitors, key)
		}
	}
	l.mu.Unlock()

	return v.limiter.Allow()
}

// RateLimit rejects callers exceeding their per-IP budget with 429.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !limiter.Allow(host) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
