package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func limitedRequest(handler http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	limiter := NewRateLimiter(Policy{Window: 15 * time.Minute, Max: 5})
	handler := limiter.Handler(okHandler())

	for i := 0; i < 5; i++ {
		rec := limitedRequest(handler, "10.0.0.1")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiter_RejectsOverMax(t *testing.T) {
	limiter := NewRateLimiter(Policy{
		Window:  15 * time.Minute,
		Max:     5,
		Message: "Too many login attempts. Please try again later.",
	})
	handler := limiter.Handler(okHandler())

	for i := 0; i < 5; i++ {
		limitedRequest(handler, "10.0.0.1")
	}

	rec := limitedRequest(handler, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Too many login attempts. Please try again later.", body.Error)
	assert.Greater(t, body.RetryAfter, 0)
	assert.LessOrEqual(t, body.RetryAfter, 900)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	limiter := NewRateLimiter(Policy{Window: time.Minute, Max: 2})
	base := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return base }

	handler := limiter.Handler(okHandler())

	limitedRequest(handler, "10.0.0.1")
	limitedRequest(handler, "10.0.0.1")
	rec := limitedRequest(handler, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// First request at/after the reset timestamp is accepted regardless
	// of the prior count.
	limiter.now = func() time.Time { return base.Add(time.Minute) }

	rec = limitedRequest(handler, "10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimiter_CountersArePerIdentifier(t *testing.T) {
	limiter := NewRateLimiter(Policy{Window: time.Minute, Max: 1})
	handler := limiter.Handler(okHandler())

	require.Equal(t, http.StatusOK, limitedRequest(handler, "10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, limitedRequest(handler, "10.0.0.1").Code)

	assert.Equal(t, http.StatusOK, limitedRequest(handler, "10.0.0.2").Code)
}

func TestRateLimiter_RemainingHeaderOnPass(t *testing.T) {
	limiter := NewRateLimiter(Policy{Window: time.Minute, Max: 3})
	handler := limiter.Handler(okHandler())

	rec := limitedRequest(handler, "10.0.0.1")
	assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientKey(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", clientKey(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "unknown", clientKey(req))
}

func TestSecondsUntil_RoundsUp(t *testing.T) {
	now := time.Unix(1000, 0)
	assert.Equal(t, 1, secondsUntil(now, now.Add(200*time.Millisecond)))
	assert.Equal(t, 900, secondsUntil(now, now.Add(15*time.Minute)))
	assert.Equal(t, 0, secondsUntil(now, now))
}
