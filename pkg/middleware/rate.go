package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/forkful/forkful/pkg/cache"
)

// bucket tracks a fixed-window request count for one IP.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(max int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

// limiter holds one RateLimit instance's counters. Each instance owns its
// buckets and a distinct Redis key prefix, so stacked limiters (the global
// one plus a tighter per-group one) never consume each other's budget.
type limiter struct {
	max    int
	window time.Duration
	prefix string

	mu      sync.Mutex
	buckets map[string]*bucket
}

func newLimiter(max int, window time.Duration) *limiter {
	l := &limiter{
		max:     max,
		window:  window,
		prefix:  fmt.Sprintf("ratelimit:%d:%s:", max, window),
		buckets: map[string]*bucket{},
	}

	// Evict buckets whose window has expired so memory stays bounded on
	// long-running servers.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			l.mu.Lock()
			for ip, b := range l.buckets {
				b.mu.Lock()
				expired := now.After(b.resetAt)
				b.mu.Unlock()
				if expired {
					delete(l.buckets, ip)
				}
			}
			l.mu.Unlock()
		}
	}()

	return l
}

func (l *limiter) bucket(ip string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[ip]; ok {
		return b
	}

	b := &bucket{resetAt: time.Now().Add(l.window)}
	l.buckets[ip] = b
	return b
}

func (l *limiter) allow(r *http.Request) bool {
	ip := clientIP(r)
	if n, err := cache.Incr(r.Context(), l.prefix+ip, l.window); err == nil {
		return n <= int64(l.max)
	}
	return l.bucket(ip).allow(l.max, l.window)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	return r.RemoteAddr
}

// RateLimit limits each IP to max requests per window. Counters live in
// Redis when it is reachable, so the limit holds across replicas; otherwise
// an in-memory fixed window takes over.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(r) {
				http.Error(w, `{"status":429,"message":"Too Many Requests"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
