package common

import (
	"net/http"
	"strings"
	"time"

	userdomain "census-app-go/internal/domain/user"
	"census-app-go/internal/transport/httpserver/middleware"
)

type UserResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func NewUserResponse(u userdomain.User) UserResponse {
	permissions := []string(u.Permissions)
	if permissions == nil {
		permissions = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: permissions,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, h.log, "auth.login", err, "email", strings.ToLower(strings.TrimSpace(req.Email)))
		return
	}

	token, expiresAt, err := h.Sessions.Issue(*u)
	if err != nil {
		h.log.InternalError("auth.login: issue token failed", err, "user_id", u.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	h.Sessions.SetCookie(w, token, expiresAt)

	h.log.Info("auth.login: session issued", "user_id", u.ID, "role", u.Role)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: NewUserResponse(*u)})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}
	writeJSON(w, http.StatusOK, NewUserResponse(u))
}
