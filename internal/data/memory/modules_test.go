package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/testutil"
)

func TestModuleStore_CreateAndLookup(t *testing.T) {
	t.Parallel()
	store := NewModuleStore()
	ctx := context.Background()

	mod := testutil.NewModule("inventario", "http://inventario.local")
	_, err := store.CreateModule(ctx, mod)
	require.NoError(t, err)

	byID, err := store.GetModule(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, "inventario", byID.Name)

	byName, err := store.GetModuleByName(ctx, "inventario")
	require.NoError(t, err)
	assert.Equal(t, mod.ID, byName.ID)

	_, err = store.CreateModule(ctx, testutil.NewModule("inventario", "http://other.local"))
	assert.True(t, apperrors.IsConflict(err))
}

func TestModuleStore_MissingModule(t *testing.T) {
	t.Parallel()
	store := NewModuleStore()
	ctx := context.Background()

	_, err := store.GetModule(ctx, "missing")
	assert.True(t, apperrors.IsModuleNotFound(err))

	_, err = store.GetModuleByName(ctx, "missing")
	assert.True(t, apperrors.IsModuleNotFound(err))

	_, err = store.SetModuleActive(ctx, "missing", false)
	assert.True(t, apperrors.IsModuleNotFound(err))
}

func TestModuleStore_SetModuleActive(t *testing.T) {
	t.Parallel()
	store := NewModuleStore()
	ctx := context.Background()

	mod := testutil.NewModule("reports", "http://reports.local")
	_, err := store.CreateModule(ctx, mod)
	require.NoError(t, err)

	updated, err := store.SetModuleActive(ctx, mod.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	updated, err = store.SetModuleActive(ctx, mod.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestModuleStore_ListOrderedByName(t *testing.T) {
	t.Parallel()
	store := NewModuleStore()
	ctx := context.Background()

	for _, name := range []string{"reports", "inventario", "billing"} {
		_, err := store.CreateModule(ctx, testutil.NewModule(name, "http://"+name+".local"))
		require.NoError(t, err)
	}

	modules, err := store.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 3)
	assert.Equal(t, "billing", modules[0].Name)
	assert.Equal(t, "inventario", modules[1].Name)
	assert.Equal(t, "reports", modules[2].Name)
}
