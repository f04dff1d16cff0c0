package middleware

import (
	"encoding/json"
	"net/http"

	"cyberblog/pkg/apierror"
)

func writeReject(w http.ResponseWriter, apiErr *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(apiErr)
}
