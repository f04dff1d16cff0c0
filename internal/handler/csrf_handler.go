package handler

import (
	"net/http"

	"cyberblog/internal/middleware"
	"cyberblog/internal/model"
	"cyberblog/internal/service"
	"cyberblog/pkg/apierror"
)

type CSRFHandler struct {
	csrf *service.CSRFService
}

func NewCSRFHandler(csrf *service.CSRFService) *CSRFHandler {
	return &CSRFHandler{csrf: csrf}
}

// Issue hands a fresh one-time token to an authenticated admin. The token
// is bound to the caller's current session credential, so it dies with
// the session.
func (h *CSRFHandler) Issue(w http.ResponseWriter, r *http.Request) {
	sessionKey := middleware.SessionCredential(r)
	if sessionKey == "" {
		writeError(w, apierror.New(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	token, err := h.csrf.Issue(sessionKey)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CSRFTokenResponse{
		CSRFToken: token,
		ExpiresIn: h.csrf.TTLText(),
	})
}
