package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// RoleStore is an in-memory RBAC graph: roles, permissions, and both edge
// tables. Role deletion cascades edge removal under the same lock, so a
// concurrent permission check observes either the full role or none of it.
type RoleStore struct {
	mu          sync.RWMutex
	roles       map[string]model.Role
	rolesByName map[string]string // name -> id
	perms       map[string]model.Permission
	permsByKey  map[string]string // resource\x00action -> id
	rolePerms   map[string]map[string]model.RolePermission // roleID -> permID -> edge
	userRoles   map[string]map[string]model.UserRole       // userID -> roleID -> edge
}

var _ ports.RoleRepository = (*RoleStore)(nil)

// NewRoleStore creates an empty RoleStore.
func NewRoleStore() *RoleStore {
	return &RoleStore{
		roles:       make(map[string]model.Role),
		rolesByName: make(map[string]string),
		perms:       make(map[string]model.Permission),
		permsByKey:  make(map[string]string),
		rolePerms:   make(map[string]map[string]model.RolePermission),
		userRoles:   make(map[string]map[string]model.UserRole),
	}
}

// CreateRole inserts a new role. Role names are unique.
func (s *RoleStore) CreateRole(_ context.Context, role model.Role) (model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rolesByName[role.Name]; exists {
		return model.Role{}, apperrors.Conflictf("role %s already exists", role.Name)
	}
	s.roles[role.ID] = role
	s.rolesByName[role.Name] = role.ID
	return role, nil
}

// GetRole returns the role with the given id.
func (s *RoleStore) GetRole(_ context.Context, id string) (*model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roleLocked(id)
}

func (s *RoleStore) roleLocked(id string) (*model.Role, error) {
	role, ok := s.roles[id]
	if !ok {
		return nil, apperrors.NotFoundf("role %s not found", id)
	}
	out := role
	return &out, nil
}

// GetRoleByName returns the role with the given name.
func (s *RoleStore) GetRoleByName(_ context.Context, name string) (*model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.rolesByName[name]
	if !ok {
		return nil, apperrors.NotFoundf("role %s not found", name)
	}
	role := s.roles[id]
	return &role, nil
}

// ListRoles returns all roles ordered by name.
func (s *RoleStore) ListRoles(_ context.Context) ([]model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteRole removes the role and cascades both edge tables atomically.
func (s *RoleStore) DeleteRole(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[id]
	if !ok {
		return false, nil
	}
	delete(s.roles, id)
	delete(s.rolesByName, role.Name)
	delete(s.rolePerms, id)
	for userID, edges := range s.userRoles {
		delete(edges, id)
		if len(edges) == 0 {
			delete(s.userRoles, userID)
		}
	}
	return true, nil
}

// CreatePermission inserts a new permission. (resource, action) pairs are unique.
func (s *RoleStore) CreatePermission(_ context.Context, perm model.Permission) (model.Permission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.permsByKey[perm.Key()]; exists {
		return model.Permission{}, apperrors.Conflictf("permission %s already exists", perm.Name())
	}
	s.perms[perm.ID] = perm
	s.permsByKey[perm.Key()] = perm.ID
	return perm, nil
}

// GetPermission returns the permission with the given id.
func (s *RoleStore) GetPermission(_ context.Context, id string) (*model.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perm, ok := s.perms[id]
	if !ok {
		return nil, apperrors.NotFoundf("permission %s not found", id)
	}
	out := perm
	return &out, nil
}

// FindPermission returns the permission identified by (resource, action).
func (s *RoleStore) FindPermission(_ context.Context, resource string, action model.Action) (*model.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := model.Permission{Resource: resource, Action: action}.Key()
	id, ok := s.permsByKey[key]
	if !ok {
		return nil, apperrors.NotFoundf("permission %s.%s not found", resource, action)
	}
	perm := s.perms[id]
	return &perm, nil
}

// ListPermissions returns all permissions ordered by derived name.
func (s *RoleStore) ListPermissions(_ context.Context) ([]model.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Permission, 0, len(s.perms))
	for _, p := range s.perms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// AssignPermission creates the role → permission edge if absent. Assigning
// an existing edge returns the stored edge without error.
func (s *RoleStore) AssignPermission(_ context.Context, roleID, permissionID string) (model.RolePermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[roleID]; !ok {
		return model.RolePermission{}, apperrors.NotFoundf("role %s not found", roleID)
	}
	if _, ok := s.perms[permissionID]; !ok {
		return model.RolePermission{}, apperrors.NotFoundf("permission %s not found", permissionID)
	}
	edges := s.rolePerms[roleID]
	if edges == nil {
		edges = make(map[string]model.RolePermission)
		s.rolePerms[roleID] = edges
	}
	if edge, ok := edges[permissionID]; ok {
		return edge, nil
	}
	edge := model.RolePermission{RoleID: roleID, PermissionID: permissionID, CreatedAt: time.Now().UTC()}
	edges[permissionID] = edge
	return edge, nil
}

// RemovePermission removes the edge if present and reports whether anything
// was removed.
func (s *RoleStore) RemovePermission(_ context.Context, roleID, permissionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edges, ok := s.rolePerms[roleID]
	if !ok {
		return false, nil
	}
	if _, ok := edges[permissionID]; !ok {
		return false, nil
	}
	delete(edges, permissionID)
	return true, nil
}

// RolePermissions returns the permissions attached to a role. A role with no
// edges yields an empty set, not an error.
func (s *RoleStore) RolePermissions(_ context.Context, roleID string) ([]model.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Permission, 0, len(s.rolePerms[roleID]))
	for permID := range s.rolePerms[roleID] {
		if perm, ok := s.perms[permID]; ok {
			out = append(out, perm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// AssignRole creates the user → role edge if absent, recording the granting
// principal. Assigning an existing edge returns the stored edge without error.
func (s *RoleStore) AssignRole(_ context.Context, edge model.UserRole) (model.UserRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[edge.RoleID]; !ok {
		return model.UserRole{}, apperrors.NotFoundf("role %s not found", edge.RoleID)
	}
	edges := s.userRoles[edge.UserID]
	if edges == nil {
		edges = make(map[string]model.UserRole)
		s.userRoles[edge.UserID] = edges
	}
	if existing, ok := edges[edge.RoleID]; ok {
		return existing, nil
	}
	edges[edge.RoleID] = edge
	return edge, nil
}

// RemoveRole removes the edge if present and reports whether anything was
// removed.
func (s *RoleStore) RemoveRole(_ context.Context, userID, roleID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edges, ok := s.userRoles[userID]
	if !ok {
		return false, nil
	}
	if _, ok := edges[roleID]; !ok {
		return false, nil
	}
	delete(edges, roleID)
	return true, nil
}

// UserRoles returns the roles assigned to a user ordered by name.
func (s *RoleStore) UserRoles(_ context.Context, userID string) ([]model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Role, 0, len(s.userRoles[userID]))
	for roleID := range s.userRoles[userID] {
		if role, ok := s.roles[roleID]; ok {
			out = append(out, role)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
