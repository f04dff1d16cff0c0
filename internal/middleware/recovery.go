package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"cyberblog/pkg/apierror"
)

// Recovery converts panics into 500 responses. The stack trace stays in
// the server log and never reaches the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				slog.Error("panic recovered", "error", fmt.Sprintf("%v", recovered), "stack", string(debug.Stack()))
				writeReject(w, apierror.New(http.StatusInternalServerError, "Internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
