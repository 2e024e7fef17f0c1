package httpx

import (
	"net/http"

	"github.com/centralhub/hub-core/internal/domain/model"
	"github.com/centralhub/hub-core/internal/service"
)

// UserHandlers serves the user administration endpoints.
type UserHandlers struct {
	Users *service.UserService
}

// Create registers a new user.
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.Users.Create(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

// List returns all users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Get returns a single user.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Update applies a partial update to a user.
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.Users.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Deactivate clears the user's active flag. There is no delete endpoint;
// deactivation keeps the audit trail intact while cutting off access.
func (h *UserHandlers) Deactivate(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Deactivate(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}
