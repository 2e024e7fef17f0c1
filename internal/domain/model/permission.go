package model

import (
	"strings"
	"time"

	apperrors "github.com/centralhub/hub-core/internal/errors"
)

// Action is the verb half of a permission. No hierarchy exists between
// actions: write does not imply read.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
	ActionAdmin  Action = "admin"
)

// Valid reports whether the action is one of the known verbs.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionWrite, ActionDelete, ActionAdmin:
		return true
	}
	return false
}

// Permission is an atomic capability identified by (Resource, Action).
// Resource is either a module name or a "system.<area>" namespace.
type Permission struct {
	ID          string    `json:"id"`
	Resource    string    `json:"resource"`
	Action      Action    `json:"action"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Name returns the derived display name, "<resource>.<action>".
func (p Permission) Name() string {
	return p.Resource + "." + string(p.Action)
}

// Key returns the identity used to deduplicate permissions in effective
// permission sets.
func (p Permission) Key() string {
	return p.Resource + "\x00" + string(p.Action)
}

// CreatePermissionRequest carries inputs for registering a permission.
type CreatePermissionRequest struct {
	Resource    string `json:"resource"`
	Action      Action `json:"action"`
	Description string `json:"description"`
}

// Normalize trims and lower-cases the resource and action.
func (r *CreatePermissionRequest) Normalize() {
	r.Resource = strings.TrimSpace(strings.ToLower(r.Resource))
	r.Action = Action(strings.TrimSpace(strings.ToLower(string(r.Action))))
	r.Description = strings.TrimSpace(r.Description)
}

// Validate checks the request for required fields and valid values.
func (r CreatePermissionRequest) Validate() error {
	if r.Resource == "" {
		return apperrors.ValidationField("resource", "resource is required")
	}
	if !r.Action.Valid() {
		return apperrors.ValidationField("action", "unknown action")
	}
	return nil
}
