package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// permissionResolver is the minimal RBAC surface the authorization service
// needs. RBACService satisfies it.
type permissionResolver interface {
	GetUserPermissions(ctx context.Context, userID string) ([]model.Permission, error)
	GetUserRoles(ctx context.Context, userID string) ([]model.Role, error)
}

// AuthorizationServiceOptions groups dependencies for AuthorizationService.
type AuthorizationServiceOptions struct {
	Users  ports.UserRepository // Required: principal store
	RBAC   permissionResolver   // Required: effective permission resolution
	Logger *slog.Logger         // Optional: structured logger
}

// AuthorizationService answers yes/no authorization questions. It is a pure
// query layer over the principal store and the RBAC graph; it has no side
// effects. Every internal failure resolves to denial, never to access.
type AuthorizationService struct {
	users  ports.UserRepository
	rbac   permissionResolver
	logger *slog.Logger
}

// NewAuthorizationService constructs a new AuthorizationService.
func NewAuthorizationService(opts AuthorizationServiceOptions) *AuthorizationService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.RBAC == nil {
		panic("permission resolver is required")
	}
	return &AuthorizationService{users: opts.Users, rbac: opts.RBAC, logger: opts.Logger}
}

// IsSuperAdmin is the single super-admin predicate. Users whose primary role
// is administrator bypass the RBAC graph entirely, which guarantees an
// administrator is never locked out by a misconfigured permission table.
func IsSuperAdmin(user *model.User) bool {
	return user != nil && user.Role == model.RoleAdministrator
}

// HasPermission reports whether the user may perform action on resource.
// Missing or inactive users are denied. Matching is exact: no wildcards, and
// no hierarchy between actions.
func (s *AuthorizationService) HasPermission(ctx context.Context, userID, resource string, action model.Action) (bool, error) {
	user, err := s.loadActiveUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	if IsSuperAdmin(user) {
		return true, nil
	}

	perms, err := s.rbac.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeStorageUnavailable, "authorization check failed")
	}
	for _, perm := range perms {
		if perm.Resource == resource && perm.Action == action {
			return true, nil
		}
	}
	return false, nil
}

// HasRole reports whether the user holds the named role, either as an
// assigned RBAC role or via the super-admin bypass.
func (s *AuthorizationService) HasRole(ctx context.Context, userID, roleName string) (bool, error) {
	user, err := s.loadActiveUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	if IsSuperAdmin(user) {
		return true, nil
	}

	roles, err := s.rbac.GetUserRoles(ctx, userID)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCodeStorageUnavailable, "authorization check failed")
	}
	for _, role := range roles {
		if role.Name == roleName {
			return true, nil
		}
	}
	return false, nil
}

// ModuleNames returns the modules the user can reach: the union of direct
// module grants and RBAC permission resources outside the system.* namespace.
// Direct grants and permission edges are independent additive grant sources.
func (s *AuthorizationService) ModuleNames(ctx context.Context, userID string) ([]string, error) {
	user, err := s.loadActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	seen := make(map[string]struct{})
	for _, name := range user.ModuleAccess {
		seen[name] = struct{}{}
	}
	perms, err := s.rbac.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageUnavailable, "authorization check failed")
	}
	for _, perm := range perms {
		if strings.HasPrefix(perm.Resource, "system.") {
			continue
		}
		seen[perm.Resource] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// loadActiveUser returns the user if present and active, nil if the user is
// missing or inactive, and an error only for backend failures.
func (s *AuthorizationService) loadActiveUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorageUnavailable, "authorization check failed")
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}
