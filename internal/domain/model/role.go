package model

import (
	"strings"
	"time"

	apperrors "github.com/centralhub/hub-core/internal/errors"
)

// Role is a named bundle of permissions. System roles are created at
// bootstrap and can be neither modified nor deleted.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRoleRequest carries inputs for creating a custom role.
type CreateRoleRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Normalize trims fields and lower-cases the role name.
func (r *CreateRoleRequest) Normalize() {
	r.Name = strings.TrimSpace(strings.ToLower(r.Name))
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Description = strings.TrimSpace(r.Description)
	if r.DisplayName == "" {
		r.DisplayName = r.Name
	}
}

// Validate checks the request for required fields.
func (r CreateRoleRequest) Validate() error {
	if r.Name == "" {
		return apperrors.ValidationField("name", "role name is required")
	}
	if RoleName(r.Name).Valid() {
		return apperrors.ValidationField("name", "role name collides with a system role")
	}
	return nil
}

// RolePermission is a role → permission edge. At most one edge exists per
// (RoleID, PermissionID) pair; assignment is idempotent.
type RolePermission struct {
	RoleID       string    `json:"role_id"`
	PermissionID string    `json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRole is a user → role edge stamped with the granting administrator.
// At most one edge exists per (UserID, RoleID) pair.
type UserRole struct {
	UserID     string    `json:"user_id"`
	RoleID     string    `json:"role_id"`
	AssignedBy string    `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}
