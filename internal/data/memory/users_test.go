package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	store := NewUserStore()
	ctx := context.Background()

	user := testutil.NewUser(testutil.WithEmail("ops@example.com"))
	_, err := store.Create(ctx, user)
	require.NoError(t, err)

	byID, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	// Email lookup is case-insensitive.
	byEmail, err := store.GetByEmail(ctx, "OPS@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserStore_CreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	store := NewUserStore()
	ctx := context.Background()

	_, err := store.Create(ctx, testutil.NewUser(testutil.WithEmail("dup@example.com")))
	require.NoError(t, err)

	_, err = store.Create(ctx, testutil.NewUser(testutil.WithEmail("DUP@example.com")))
	assert.True(t, apperrors.IsConflict(err))
}

func TestUserStore_GetMissing(t *testing.T) {
	t.Parallel()
	store := NewUserStore()
	ctx := context.Background()

	_, err := store.GetByID(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = store.GetByEmail(ctx, "missing@example.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserStore_Update(t *testing.T) {
	t.Parallel()
	store := NewUserStore()
	ctx := context.Background()

	user := testutil.NewUser()
	_, err := store.Create(ctx, user)
	require.NoError(t, err)

	newName := "Renamed User"
	inactive := false
	role := model.RoleManager
	updated, err := store.Update(ctx, user.ID, model.UserUpdate{
		FullName: &newName,
		IsActive: &inactive,
		Role:     &role,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", updated.FullName)
	assert.False(t, updated.IsActive)
	assert.Equal(t, model.RoleManager, updated.Role)

	// Untouched fields survive the partial update.
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)
}

func TestUserStore_UpdateMissing(t *testing.T) {
	t.Parallel()
	store := NewUserStore()
	name := "nobody"
	_, err := store.Update(context.Background(), "missing", model.UserUpdate{FullName: &name})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserStore_ListOrderedByEmail(t *testing.T) {
	t.Parallel()
	store := NewUserStore()
	ctx := context.Background()

	for _, email := range []string{"charlie@example.com", "alice@example.com", "bob@example.com"} {
		_, err := store.Create(ctx, testutil.NewUser(testutil.WithEmail(email)))
		require.NoError(t, err)
	}

	users, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "bob@example.com", users[1].Email)
	assert.Equal(t, "charlie@example.com", users[2].Email)
}

func TestUserStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	store := NewUserStore()
	ctx := context.Background()

	user := testutil.NewUser(testutil.WithModuleAccess("inventario"))
	_, err := store.Create(ctx, user)
	require.NoError(t, err)

	got, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.ModuleAccess[0] = "mutated"

	again, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"inventario"}, again.ModuleAccess)
}
