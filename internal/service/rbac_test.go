package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centralhub/hub-core/internal/data/memory"
	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/testutil"
)

func newRBACService(t *testing.T) (*memory.RoleStore, *RBACService) {
	t.Helper()
	roles := memory.NewRoleStore()
	svc := NewRBACService(RBACServiceOptions{
		Roles: roles,
		Clock: testutil.NewFixedClock(testutil.BaseTime),
	})
	return roles, svc
}

func TestRBACService_Bootstrap(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx))

	roles, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 4)
	for _, role := range roles {
		assert.True(t, role.IsSystem, "role %s", role.Name)
	}

	perms, err := svc.ListPermissions(ctx)
	require.NoError(t, err)
	// 4 system resources x 4 actions.
	assert.Len(t, perms, 16)

	admin, err := svc.GetRoleByName(ctx, string(model.RoleAdministrator))
	require.NoError(t, err)
	adminPerms, err := svc.GetRolePermissions(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, adminPerms, 16)
}

func TestRBACService_BootstrapIsIdempotent(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx))
	require.NoError(t, svc.Bootstrap(ctx))

	roles, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 4)

	perms, err := svc.ListPermissions(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, 16)
}

func TestRBACService_CreateRole(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, model.CreateRoleRequest{Name: "  Auditor  "})
	require.NoError(t, err)
	assert.Equal(t, "auditor", role.Name)
	assert.Equal(t, "auditor", role.DisplayName)
	assert.False(t, role.IsSystem)
}

func TestRBACService_CreateRoleRejectsSystemNames(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)

	_, err := svc.CreateRole(context.Background(), model.CreateRoleRequest{Name: "administrator"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRBACService_DeleteRole(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)
	ctx := context.Background()
	require.NoError(t, svc.Bootstrap(ctx))

	custom, err := svc.CreateRole(ctx, model.CreateRoleRequest{Name: "auditor"})
	require.NoError(t, err)

	deleted, err := svc.DeleteRole(ctx, custom.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// System roles and unknown ids both report deleted=false, not an error.
	admin, err := svc.GetRoleByName(ctx, string(model.RoleAdministrator))
	require.NoError(t, err)
	deleted, err = svc.DeleteRole(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.DeleteRole(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRBACService_EnsurePermission(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)
	ctx := context.Background()

	first, err := svc.EnsurePermission(ctx, model.CreatePermissionRequest{
		Resource: "inventario",
		Action:   model.ActionRead,
	})
	require.NoError(t, err)

	second, err := svc.EnsurePermission(ctx, model.CreatePermissionRequest{
		Resource: "Inventario",
		Action:   model.ActionRead,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestRBACService_EffectivePermissionsUnionDeduplicated(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)
	ctx := context.Background()

	auditor, err := svc.CreateRole(ctx, model.CreateRoleRequest{Name: "auditor"})
	require.NoError(t, err)
	clerk, err := svc.CreateRole(ctx, model.CreateRoleRequest{Name: "clerk"})
	require.NoError(t, err)

	read, err := svc.CreatePermission(ctx, model.CreatePermissionRequest{Resource: "inventario", Action: model.ActionRead})
	require.NoError(t, err)
	write, err := svc.CreatePermission(ctx, model.CreatePermissionRequest{Resource: "inventario", Action: model.ActionWrite})
	require.NoError(t, err)

	// Both roles carry the read permission; only clerk carries write.
	_, err = svc.AssignPermissionToRole(ctx, auditor.ID, read.ID)
	require.NoError(t, err)
	_, err = svc.AssignPermissionToRole(ctx, clerk.ID, read.ID)
	require.NoError(t, err)
	_, err = svc.AssignPermissionToRole(ctx, clerk.ID, write.ID)
	require.NoError(t, err)

	_, err = svc.AssignRoleToUser(ctx, "user-1", auditor.ID, "admin-1")
	require.NoError(t, err)
	_, err = svc.AssignRoleToUser(ctx, "user-1", clerk.ID, "admin-1")
	require.NoError(t, err)

	perms, err := svc.GetUserPermissions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, perms, 2)

	names := []string{perms[0].Name(), perms[1].Name()}
	assert.ElementsMatch(t, []string{"inventario.read", "inventario.write"}, names)
}

func TestRBACService_AssignRoleRecordsGrantor(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, model.CreateRoleRequest{Name: "auditor"})
	require.NoError(t, err)

	edge, err := svc.AssignRoleToUser(ctx, "user-1", role.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", edge.AssignedBy)
	assert.True(t, edge.AssignedAt.Equal(testutil.BaseTime))
}

func TestRBACService_RemoveEdges(t *testing.T) {
	t.Parallel()
	_, svc := newRBACService(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, model.CreateRoleRequest{Name: "auditor"})
	require.NoError(t, err)
	perm, err := svc.CreatePermission(ctx, model.CreatePermissionRequest{Resource: "inventario", Action: model.ActionRead})
	require.NoError(t, err)
	_, err = svc.AssignPermissionToRole(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	_, err = svc.AssignRoleToUser(ctx, "user-1", role.ID, "admin-1")
	require.NoError(t, err)

	removed, err := svc.RemovePermissionFromRole(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.RemovePermissionFromRole(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.RemoveRoleFromUser(ctx, "user-1", role.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	perms, err := svc.GetUserPermissions(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, perms)
}
