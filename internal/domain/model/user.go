package model

// Package model contains pure domain types for the hub core.
// It is free of storage and transport concerns.

import (
	"strings"
	"time"

	apperrors "github.com/centralhub/hub-core/internal/errors"
)

// RoleName is a user's primary role. Kept as a string for easy persistence
// and token embedding. Valid values are defined as constants below.
type RoleName string

const (
	RoleAdministrator RoleName = "administrator"
	RoleManager       RoleName = "manager"
	RoleOperator      RoleName = "operator"
	RoleViewer        RoleName = "viewer"
)

// SystemRoleNames returns the four built-in role names created at bootstrap.
func SystemRoleNames() []RoleName {
	return []RoleName{RoleAdministrator, RoleManager, RoleOperator, RoleViewer}
}

// Valid reports whether the role name is one of the built-in primary roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdministrator, RoleManager, RoleOperator, RoleViewer:
		return true
	}
	return false
}

// User is an identity record owned by the principal store.
// PasswordHash never leaves the service layer; JSON serialization omits it.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         RoleName   `json:"role"`
	IsActive     bool       `json:"is_active"`
	ModuleAccess []string   `json:"module_access"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Sanitized returns a copy of the user safe for API responses.
func (u User) Sanitized() User {
	out := u
	out.PasswordHash = ""
	return out
}

// HasModuleAccess reports whether the user carries a direct grant for the
// named module. Direct grants are additive with RBAC permission grants.
func (u User) HasModuleAccess(moduleName string) bool {
	for _, name := range u.ModuleAccess {
		if name == moduleName {
			return true
		}
	}
	return false
}

// CreateUserRequest carries inputs for creating a user.
type CreateUserRequest struct {
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	FullName     string   `json:"full_name"`
	Role         RoleName `json:"role"`
	ModuleAccess []string `json:"module_access"`
}

// Normalize trims and lower-cases fields that are compared case-insensitively.
func (r *CreateUserRequest) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	if r.Role == "" {
		r.Role = RoleViewer
	}
}

// Validate checks the request for required fields and valid values.
func (r CreateUserRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return apperrors.ValidationField("email", "a valid email is required")
	}
	if r.Password == "" {
		return apperrors.ValidationField("password", "password is required")
	}
	if r.FullName == "" {
		return apperrors.ValidationField("full_name", "full name is required")
	}
	if !r.Role.Valid() {
		return apperrors.ValidationField("role", "unknown role")
	}
	return nil
}

// UpdateUserRequest carries a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	FullName     *string   `json:"full_name,omitempty"`
	Role         *RoleName `json:"role,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
	ModuleAccess *[]string `json:"module_access,omitempty"`
	Password     *string   `json:"password,omitempty"`
}

// Validate checks the provided fields for valid values.
func (r UpdateUserRequest) Validate() error {
	if r.FullName != nil && strings.TrimSpace(*r.FullName) == "" {
		return apperrors.ValidationField("full_name", "full name cannot be empty")
	}
	if r.Role != nil && !r.Role.Valid() {
		return apperrors.ValidationField("role", "unknown role")
	}
	if r.Password != nil && *r.Password == "" {
		return apperrors.ValidationField("password", "password cannot be empty")
	}
	return nil
}

// UserUpdate is the storage-level partial update applied by repositories.
// The service layer translates UpdateUserRequest into this shape after
// hashing any new password.
type UserUpdate struct {
	FullName     *string
	Role         *RoleName
	IsActive     *bool
	ModuleAccess *[]string
	PasswordHash *string
	LastLogin    *time.Time
}
