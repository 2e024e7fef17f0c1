package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// RBACServiceOptions groups dependencies for RBACService.
type RBACServiceOptions struct {
	Roles  ports.RoleRepository // Required: RBAC graph repository
	Clock  ports.Clock          // Optional: defaults to system time
	Logger *slog.Logger         // Optional: structured logger
}

// RBACService maintains the role/permission graph and computes effective
// permission sets. Grants are purely additive; there is no explicit-deny
// mechanism, so a user's effective set is the deduplicated union across all
// assigned roles.
type RBACService struct {
	roles  ports.RoleRepository
	clock  ports.Clock
	logger *slog.Logger
}

// NewRBACService constructs a new RBACService.
func NewRBACService(opts RBACServiceOptions) *RBACService {
	if opts.Roles == nil {
		panic("RoleRepository is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &RBACService{roles: opts.Roles, clock: clock, logger: opts.Logger}
}

// systemRoleSeed describes a built-in role created at bootstrap.
type systemRoleSeed struct {
	name        model.RoleName
	displayName string
	description string
}

func systemRoleSeeds() []systemRoleSeed {
	return []systemRoleSeed{
		{model.RoleAdministrator, "Administrator", "Full access to every module and system area"},
		{model.RoleManager, "Manager", "Manages module content and day-to-day operations"},
		{model.RoleOperator, "Operator", "Performs routine operations within granted modules"},
		{model.RoleViewer, "Viewer", "Read-only access within granted modules"},
	}
}

// builtinPermissionSeeds returns the system permission catalog registered at
// bootstrap. Module-scoped permissions are created as modules are registered.
func builtinPermissionSeeds() []model.CreatePermissionRequest {
	resources := []string{"system.users", "system.roles", "system.modules", "system.dashboard"}
	actions := []model.Action{model.ActionRead, model.ActionWrite, model.ActionDelete, model.ActionAdmin}
	out := make([]model.CreatePermissionRequest, 0, len(resources)*len(actions))
	for _, res := range resources {
		for _, act := range actions {
			out = append(out, model.CreatePermissionRequest{
				Resource:    res,
				Action:      act,
				Description: fmt.Sprintf("%s access to %s", act, res),
			})
		}
	}
	return out
}

// Bootstrap ensures the four system roles and the built-in permission
// catalog exist, then grants the administrator role every permission known
// at this point. Safe to call multiple times.
func (s *RBACService) Bootstrap(ctx context.Context) error {
	for _, seed := range systemRoleSeeds() {
		if err := s.ensureSystemRole(ctx, seed); err != nil {
			return err
		}
	}

	for _, seed := range builtinPermissionSeeds() {
		if _, err := s.EnsurePermission(ctx, seed); err != nil {
			return err
		}
	}

	admin, err := s.roles.GetRoleByName(ctx, string(model.RoleAdministrator))
	if err != nil {
		return fmt.Errorf("load administrator role: %w", err)
	}
	perms, err := s.roles.ListPermissions(ctx)
	if err != nil {
		return fmt.Errorf("list permissions: %w", err)
	}
	for _, perm := range perms {
		if _, err := s.roles.AssignPermission(ctx, admin.ID, perm.ID); err != nil {
			return fmt.Errorf("grant %s to administrator: %w", perm.Name(), err)
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "rbac bootstrap complete",
			"system_roles", len(systemRoleSeeds()),
			"permissions", len(perms),
		)
	}
	return nil
}

func (s *RBACService) ensureSystemRole(ctx context.Context, seed systemRoleSeed) error {
	_, err := s.roles.GetRoleByName(ctx, string(seed.name))
	if err == nil {
		return nil
	}
	if !apperrors.IsNotFound(err) {
		return fmt.Errorf("look up role %s: %w", seed.name, err)
	}
	role := model.Role{
		ID:          uuid.NewString(),
		Name:        string(seed.name),
		DisplayName: seed.displayName,
		Description: seed.description,
		IsSystem:    true,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if _, err := s.roles.CreateRole(ctx, role); err != nil {
		// Lost a race with a concurrent bootstrap; the role exists now.
		if apperrors.IsConflict(err) {
			return nil
		}
		return fmt.Errorf("create role %s: %w", seed.name, err)
	}
	return nil
}

// CreateRole creates a custom (non-system) role.
func (s *RBACService) CreateRole(ctx context.Context, req model.CreateRoleRequest) (*model.Role, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role := model.Role{
		ID:          uuid.NewString(),
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		CreatedAt:   s.clock.Now().UTC(),
	}
	created, err := s.roles.CreateRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "role created", "role_id", created.ID, "name", created.Name)
	}
	return &created, nil
}

// GetRole retrieves a role by id.
func (s *RBACService) GetRole(ctx context.Context, id string) (*model.Role, error) {
	return s.roles.GetRole(ctx, id)
}

// GetRoleByName retrieves a role by name.
func (s *RBACService) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return s.roles.GetRoleByName(ctx, name)
}

// ListRoles lists all roles.
func (s *RBACService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roles.ListRoles(ctx)
}

// DeleteRole deletes a non-system role, cascading its permission and user
// edges. Deleting a system role is an expected administrative mistake, not a
// fault: it reports (false, nil) and leaves the role intact.
func (s *RBACService) DeleteRole(ctx context.Context, id string) (bool, error) {
	role, err := s.roles.GetRole(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("load role: %w", err)
	}
	if role.IsSystem {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "refusing to delete system role", "role_id", id, "name", role.Name)
		}
		return false, nil
	}
	deleted, err := s.roles.DeleteRole(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete role: %w", err)
	}
	if deleted && s.logger != nil {
		s.logger.InfoContext(ctx, "role deleted", "role_id", id, "name", role.Name)
	}
	return deleted, nil
}

// CreatePermission registers a new permission.
func (s *RBACService) CreatePermission(ctx context.Context, req model.CreatePermissionRequest) (*model.Permission, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	perm := model.Permission{
		ID:          uuid.NewString(),
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
		CreatedAt:   s.clock.Now().UTC(),
	}
	created, err := s.roles.CreatePermission(ctx, perm)
	if err != nil {
		return nil, fmt.Errorf("create permission: %w", err)
	}
	return &created, nil
}

// EnsurePermission returns the existing permission for (resource, action) or
// creates it.
func (s *RBACService) EnsurePermission(ctx context.Context, req model.CreatePermissionRequest) (*model.Permission, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.roles.FindPermission(ctx, req.Resource, req.Action)
	if err == nil {
		return existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("look up permission: %w", err)
	}
	created, err := s.CreatePermission(ctx, req)
	if err != nil && apperrors.IsConflict(err) {
		return s.roles.FindPermission(ctx, req.Resource, req.Action)
	}
	return created, err
}

// ListPermissions lists all registered permissions.
func (s *RBACService) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	return s.roles.ListPermissions(ctx)
}

// AssignPermissionToRole creates the role → permission edge. Idempotent:
// a duplicate assignment returns the existing edge without error.
func (s *RBACService) AssignPermissionToRole(ctx context.Context, roleID, permissionID string) (model.RolePermission, error) {
	edge, err := s.roles.AssignPermission(ctx, roleID, permissionID)
	if err != nil {
		return model.RolePermission{}, fmt.Errorf("assign permission: %w", err)
	}
	return edge, nil
}

// RemovePermissionFromRole removes the edge if present and reports whether
// anything was removed.
func (s *RBACService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID string) (bool, error) {
	removed, err := s.roles.RemovePermission(ctx, roleID, permissionID)
	if err != nil {
		return false, fmt.Errorf("remove permission: %w", err)
	}
	return removed, nil
}

// GetRolePermissions returns the permissions attached to a role; an empty
// set, not an error, when the role has none.
func (s *RBACService) GetRolePermissions(ctx context.Context, roleID string) ([]model.Permission, error) {
	return s.roles.RolePermissions(ctx, roleID)
}

// AssignRoleToUser creates the user → role edge, recording the granting
// administrator. Idempotent like AssignPermissionToRole.
func (s *RBACService) AssignRoleToUser(ctx context.Context, userID, roleID, grantedBy string) (model.UserRole, error) {
	edge := model.UserRole{
		UserID:     userID,
		RoleID:     roleID,
		AssignedBy: grantedBy,
		AssignedAt: s.clock.Now().UTC(),
	}
	stored, err := s.roles.AssignRole(ctx, edge)
	if err != nil {
		return model.UserRole{}, fmt.Errorf("assign role: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "role assigned",
			"user_id", userID, "role_id", roleID, "assigned_by", grantedBy)
	}
	return stored, nil
}

// RemoveRoleFromUser removes the edge if present and reports whether
// anything was removed.
func (s *RBACService) RemoveRoleFromUser(ctx context.Context, userID, roleID string) (bool, error) {
	removed, err := s.roles.RemoveRole(ctx, userID, roleID)
	if err != nil {
		return false, fmt.Errorf("remove role: %w", err)
	}
	return removed, nil
}

// GetUserRoles returns the roles assigned to a user.
func (s *RBACService) GetUserRoles(ctx context.Context, userID string) ([]model.Role, error) {
	return s.roles.UserRoles(ctx, userID)
}

// GetUserPermissions computes the user's effective permission set: the union
// of every assigned role's permissions, deduplicated by (resource, action).
func (s *RBACService) GetUserPermissions(ctx context.Context, userID string) ([]model.Permission, error) {
	roles, err := s.roles.UserRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	seen := make(map[string]struct{})
	out := make([]model.Permission, 0)
	for _, role := range roles {
		perms, err := s.roles.RolePermissions(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("list permissions for role %s: %w", role.Name, err)
		}
		for _, perm := range perms {
			if _, dup := seen[perm.Key()]; dup {
				continue
			}
			seen[perm.Key()] = struct{}{}
			out = append(out, perm)
		}
	}
	return out, nil
}
