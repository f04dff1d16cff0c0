package handler

import (
	"context"
	"net/http"

	"cyberblog/internal/model"
	"cyberblog/pkg/apierror"
)

type pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports liveness plus database reachability.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		writeError(w, apierror.New(http.StatusServiceUnavailable, "Database unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "ok"})
}
