package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

func CORS(origins []string) func(http.Handler) http.Handler {
	// Credentialed CORS forbids the wildcard, so an empty list falls back
	// to the local frontend rather than "*".
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", CSRFHeaderName, requestIDHeader},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After", requestIDHeader},
		MaxAge:         3600,
		// The session credential travels in a cookie, so cross-origin
		// requests must be allowed to send credentials.
		AllowCredentials: true,
	})

	return handler.Handler
}
