package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"cyberblog/internal/middleware"
	"cyberblog/internal/model"
	"cyberblog/internal/service"
	"cyberblog/pkg/apierror"
)

const (
	maxUsernameLength = 50
	maxPasswordLength = 100
)

type AuthHandler struct {
	auth          *service.AuthService
	tokens        *service.TokenService
	secureCookies bool
}

func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, secureCookies: secureCookies}
}

// Login authenticates an admin and sets the auth-token session cookie.
// Accounts below the ADMIN role are rejected even with a correct password:
// the admin panel is the only thing this credential unlocks.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if payload.Username == "" || payload.Password == "" {
		writeError(w, apierror.New(http.StatusBadRequest, "Username and password are required"))
		return
	}

	if len(payload.Username) > maxUsernameLength {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid username format"))
		return
	}

	if len(payload.Password) > maxPasswordLength {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid password format"))
		return
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" {
		writeError(w, apierror.New(http.StatusBadRequest, "Username cannot be empty"))
		return
	}

	user, err := h.auth.Authenticate(r.Context(), username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if user.Role != model.RoleAdmin {
		writeError(w, apierror.New(http.StatusForbidden, "Access denied. Admin privileges required."))
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Message: "Login successful",
		User:    user.Public(),
	})
}

// Logout expires the session cookie. The credential itself stays valid
// until its expiry; there is no server-side revocation list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Logout successful"})
}
