package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"cyberblog/internal/store"
	"cyberblog/pkg/apierror"
)

// sweepThreshold bounds the counter map: once it grows past this many
// client identifiers, expired entries are swept on the next request.
const sweepThreshold = 1000

// Policy names a rate-limit budget. Separate policies keep independent
// counter maps, so the strict login policy and the looser admin policy do
// not interfere.
type Policy struct {
	Window  time.Duration
	Max     int
	Message string
}

type counter struct {
	count int
	reset time.Time
}

// RateLimiter bounds request volume per client identity over a rolling
// window. Windows are lazy: each identifier's window starts on its first
// request after a reset and drifts independently of any clock boundary.
type RateLimiter struct {
	policy   Policy
	mu       sync.Mutex
	counters store.Store[*counter]
	now      func() time.Time
}

func NewRateLimiter(policy Policy) *RateLimiter {
	if policy.Window <= 0 {
		policy.Window = time.Minute
	}
	if policy.Max <= 0 {
		policy.Max = 100
	}
	if policy.Message == "" {
		policy.Message = "Too many requests"
	}

	return &RateLimiter{
		policy:   policy,
		counters: store.NewMemory[*counter](),
		now:      time.Now,
	}
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining, reset, allowed := l.take(clientKey(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.policy.Max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", reset.UTC().Format(time.RFC3339))

		if !allowed {
			retryAfter := secondsUntil(l.now(), reset)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeReject(w, apierror.RateLimited(l.policy.Message, retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// take records one request for key and reports whether it fits the budget.
// The request that reaches exactly Max is still allowed; only the one that
// would exceed it is rejected.
func (l *RateLimiter) take(key string) (remaining int, reset time.Time, allowed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	c, ok := l.counters.Get(key)
	if !ok {
		c = &counter{reset: now.Add(l.policy.Window)}
	}

	if !now.Before(c.reset) {
		c.count = 0
		c.reset = now.Add(l.policy.Window)
	}

	c.count++

	// The ttl outlives the window, so a counter can never vanish while
	// its window is still open; idle identifiers age out instead of
	// accumulating forever.
	l.counters.Set(key, c, 2*l.policy.Window)
	if l.counters.Len() > sweepThreshold {
		l.counters.Sweep()
	}

	if c.count > l.policy.Max {
		return 0, c.reset, false
	}

	return l.policy.Max - c.count, c.reset, true
}

// clientKey derives the rate-limit identity from proxy forwarding headers.
// Without either header the request counts against a shared sentinel.
func clientKey(r *http.Request) string {
	forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	return "unknown"
}

func secondsUntil(now time.Time, deadline time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}

	return int((d + time.Second - 1) / time.Second)
}
