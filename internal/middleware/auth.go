package middleware

import (
	"context"
	"net/http"
	"strings"

	"cyberblog/internal/model"
	"cyberblog/pkg/apierror"
)

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = "auth-token"

type credentialVerifier interface {
	Verify(raw string) (*model.SessionClaims, bool)
}

type contextKey string

const sessionClaimsContextKey contextKey = "session_claims"

type AuthMiddleware struct {
	verifier credentialVerifier
}

func NewAuthMiddleware(verifier credentialVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a verifiable session credential.
// A missing cookie and a failed verification produce the same response;
// the two cases mean the same thing to the client.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := SessionCredential(r)
		if raw == "" {
			writeReject(w, apierror.New(http.StatusUnauthorized, "Unauthorized"))
			return
		}

		claims, ok := m.verifier.Verify(raw)
		if !ok {
			writeReject(w, apierror.New(http.StatusUnauthorized, "Unauthorized"))
			return
		}

		ctx := context.WithValue(r.Context(), sessionClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles admits only sessions whose role is in the allowed set.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToUpper(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeReject(w, apierror.New(http.StatusUnauthorized, "Unauthorized"))
				return
			}

			if _, allowed := roleSet[strings.ToUpper(claims.Role)]; !allowed {
				writeReject(w, apierror.New(http.StatusForbidden, "Forbidden"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionCredential extracts the raw auth-token cookie value, or "".
func SessionCredential(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(cookie.Value)
}

func ClaimsFromContext(ctx context.Context) (*model.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsContextKey).(*model.SessionClaims)
	return claims, ok
}
