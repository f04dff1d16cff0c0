package apierror

import (
	"fmt"
	"net/http"
)

// APIError carries the HTTP status and the client-safe message for a
// rejected request. RetryAfter is only set on rate-limit rejections.
type APIError struct {
	Message    string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	return fmt.Sprintf("%d: %s", e.HTTPStatus, e.Message)
}

func New(status int, message string) *APIError {
	return &APIError{Message: message, HTTPStatus: status}
}

func RateLimited(message string, retryAfter int) *APIError {
	return &APIError{Message: message, RetryAfter: retryAfter, HTTPStatus: http.StatusTooManyRequests}
}
