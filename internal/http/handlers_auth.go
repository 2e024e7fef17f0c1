package httpx

import (
	"errors"
	"net/http"

	"github.com/centralhub/hub-core/internal/service"
)

// AuthHandlers serves login, logout, and identity lookup.
type AuthHandlers struct {
	Sessions *service.SessionService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email and password and returns a session token.
// All authentication failures surface as the same 401 body.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("email and password are required"),
		})
		return
	}

	result, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// Logout revokes the presented session. Revoking an already-revoked or
// unknown token still returns 204.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context(), BearerToken(r)); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user. Runs inside RequireAuth.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, session.User.Sanitized())
}
