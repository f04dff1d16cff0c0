package middleware

import (
	"net/http"
	"strings"

	"cyberblog/pkg/apierror"
)

const (
	// CSRFHeaderName carries the anti-forgery token; CSRFQueryParam is
	// the fallback for clients that cannot set headers.
	CSRFHeaderName = "X-CSRF-Token"
	CSRFQueryParam = "csrf_token"
)

type csrfValidator interface {
	Validate(sessionKey string, presented string) bool
}

type CSRFMiddleware struct {
	validator csrfValidator
}

func NewCSRFMiddleware(validator csrfValidator) *CSRFMiddleware {
	return &CSRFMiddleware{validator: validator}
}

// Guard enforces the double-submit check on state-changing requests.
// Read methods pass untouched; everything else needs the session cookie
// plus a one-time token issued for that exact session.
func (m *CSRFMiddleware) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isReadMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		sessionKey := SessionCredential(r)
		if sessionKey == "" {
			writeReject(w, apierror.New(http.StatusUnauthorized, "Authentication required"))
			return
		}

		token := strings.TrimSpace(r.Header.Get(CSRFHeaderName))
		if token == "" {
			token = strings.TrimSpace(r.URL.Query().Get(CSRFQueryParam))
		}
		if token == "" {
			writeReject(w, apierror.New(http.StatusForbidden, "CSRF token required"))
			return
		}

		if !m.validator.Validate(sessionKey, token) {
			writeReject(w, apierror.New(http.StatusForbidden, "Invalid CSRF token"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	return false
}
