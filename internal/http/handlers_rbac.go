package httpx

import (
	"errors"
	"net/http"

	"github.com/centralhub/hub-core/internal/domain/model"
	"github.com/centralhub/hub-core/internal/service"
)

// RBACHandlers serves role, permission, and assignment administration.
type RBACHandlers struct {
	RBAC *service.RBACService
}

// CreateRole creates a custom role.
func (h *RBACHandlers) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	role, err := h.RBAC.CreateRole(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, role)
}

// ListRoles returns all roles.
func (h *RBACHandlers) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.RBAC.ListRoles(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roles": roles})
}

// GetRole returns a single role with its permissions.
func (h *RBACHandlers) GetRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	role, err := h.RBAC.GetRole(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	perms, err := h.RBAC.GetRolePermissions(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"role": role, "permissions": perms})
}

// DeleteRole deletes a custom role. System roles and unknown ids both report
// deleted=false rather than an error.
func (h *RBACHandlers) DeleteRole(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.RBAC.DeleteRole(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// CreatePermission registers a new permission.
func (h *RBACHandlers) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePermissionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	perm, err := h.RBAC.CreatePermission(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, perm)
}

// ListPermissions returns all registered permissions.
func (h *RBACHandlers) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.RBAC.ListPermissions(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"permissions": perms})
}

type assignPermissionRequest struct {
	PermissionID string `json:"permission_id"`
}

// AssignPermission links a permission to a role.
func (h *RBACHandlers) AssignPermission(w http.ResponseWriter, r *http.Request) {
	var req assignPermissionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.PermissionID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("permission_id is required"),
		})
		return
	}
	edge, err := h.RBAC.AssignPermissionToRole(r.Context(), r.PathValue("id"), req.PermissionID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, edge)
}

// RemovePermission unlinks a permission from a role.
func (h *RBACHandlers) RemovePermission(w http.ResponseWriter, r *http.Request) {
	removed, err := h.RBAC.RemovePermissionFromRole(r.Context(), r.PathValue("id"), r.PathValue("permissionID"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

type assignRoleRequest struct {
	RoleID string `json:"role_id"`
}

// AssignRole links a role to a user, recording the granting administrator.
func (h *RBACHandlers) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req assignRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.RoleID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("role_id is required"),
		})
		return
	}

	grantedBy := ""
	if session, ok := GetSessionFromContext(r.Context()); ok {
		grantedBy = session.User.ID
	}
	edge, err := h.RBAC.AssignRoleToUser(r.Context(), r.PathValue("id"), req.RoleID, grantedBy)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, edge)
}

// RemoveRole unlinks a role from a user.
func (h *RBACHandlers) RemoveRole(w http.ResponseWriter, r *http.Request) {
	removed, err := h.RBAC.RemoveRoleFromUser(r.Context(), r.PathValue("id"), r.PathValue("roleID"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// UserRoles returns the roles assigned to a user.
func (h *RBACHandlers) UserRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.RBAC.GetUserRoles(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"roles": roles})
}

// UserPermissions returns the user's effective permission set.
func (h *RBACHandlers) UserPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.RBAC.GetUserPermissions(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"permissions": perms})
}
