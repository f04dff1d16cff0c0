package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubCSRFValidator struct {
	sessionKey string
	token      string
}

func (s *stubCSRFValidator) Validate(sessionKey, presented string) bool {
	return sessionKey == s.sessionKey && presented == s.token
}

func guardedRequest(handler http.Handler, method, target, cookie, headerToken string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	if headerToken != "" {
		req.Header.Set(CSRFHeaderName, headerToken)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGuard_ReadMethodsPass(t *testing.T) {
	mw := NewCSRFMiddleware(&stubCSRFValidator{})
	handler := mw.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		rec := guardedRequest(handler, method, "/api/admin/posts", "", "")
		assert.Equal(t, http.StatusOK, rec.Code, method)
	}
}

func TestGuard_MissingCookie(t *testing.T) {
	mw := NewCSRFMiddleware(&stubCSRFValidator{})
	handler := mw.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := guardedRequest(handler, http.MethodPatch, "/api/admin/posts/1", "", "tok")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", errorMessage(t, rec))
}

func TestGuard_MissingToken(t *testing.T) {
	mw := NewCSRFMiddleware(&stubCSRFValidator{sessionKey: "session", token: "tok"})
	handler := mw.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := guardedRequest(handler, http.MethodPatch, "/api/admin/posts/1", "session", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "CSRF token required", errorMessage(t, rec))
}

func TestGuard_InvalidToken(t *testing.T) {
	mw := NewCSRFMiddleware(&stubCSRFValidator{sessionKey: "session", token: "tok"})
	handler := mw.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := guardedRequest(handler, http.MethodDelete, "/api/admin/posts/1", "session", "wrong")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid CSRF token", errorMessage(t, rec))
}

func TestGuard_ValidTokenPasses(t *testing.T) {
	mw := NewCSRFMiddleware(&stubCSRFValidator{sessionKey: "session", token: "tok"})
	called := false
	handler := mw.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := guardedRequest(handler, http.MethodPost, "/api/admin/posts", "session", "tok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestGuard_QueryParamFallback(t *testing.T) {
	mw := NewCSRFMiddleware(&stubCSRFValidator{sessionKey: "session", token: "tok"})
	handler := mw.Guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := guardedRequest(handler, http.MethodPost, "/api/admin/posts?csrf_token=tok", "session", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
