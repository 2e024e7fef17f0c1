package httpx

import (
	"net/http"

	"github.com/centralhub/hub-core/internal/domain/model"
	"github.com/centralhub/hub-core/internal/service"
)

// ModuleHandlers serves the module directory endpoints.
type ModuleHandlers struct {
	Modules *service.ModuleService
	Authz   *service.AuthorizationService
}

// Create registers a new module.
func (h *ModuleHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateModuleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	mod, err := h.Modules.Create(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, mod)
}

// List returns the full directory for administrators.
func (h *ModuleHandlers) List(w http.ResponseWriter, r *http.Request) {
	modules, err := h.Modules.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"modules": modules})
}

// Get returns a single module.
func (h *ModuleHandlers) Get(w http.ResponseWriter, r *http.Request) {
	mod, err := h.Modules.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, mod)
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetActive flips the module's active flag.
func (h *ModuleHandlers) SetActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	mod, err := h.Modules.SetActive(r.Context(), r.PathValue("id"), req.IsActive)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, mod)
}

// Mine returns the reachable module names for the authenticated user: the
// union of direct grants and RBAC module permissions.
func (h *ModuleHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errAuthRequired,
		})
		return
	}
	names, err := h.Authz.ModuleNames(r.Context(), session.User.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	// Super admins see every active module.
	modules, err := h.Modules.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	reachable := make([]model.Module, 0, len(modules))
	isSuper := service.IsSuperAdmin(&session.User)
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	for _, mod := range modules {
		if !mod.IsActive {
			continue
		}
		if isSuper {
			reachable = append(reachable, mod)
			continue
		}
		if _, ok := allowed[mod.Name]; ok {
			reachable = append(reachable, mod)
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"modules": reachable})
}
