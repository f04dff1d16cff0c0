package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"cyberblog/internal/model"
	"cyberblog/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps an error to the wire format {"error": string}. Unknown
// errors collapse to a generic 500; the detail stays in the server log.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.HTTPStatus, apiErr)
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid username or password"
	case errors.Is(err, model.ErrPostNotFound):
		status = http.StatusNotFound
		message = "Post not found"
	case errors.Is(err, model.ErrSlugTaken):
		status = http.StatusBadRequest
		message = "Slug already exists"
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		message = "Forbidden"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		message = "Invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, apierror.New(status, message))
}
