package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/testutil"
)

func newSession(token string, expiresAt time.Time) model.Session {
	return model.Session{
		ID:        "sess-" + token,
		UserID:    "user-1",
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: testutil.BaseTime,
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	t.Parallel()
	store := NewSessionStore()
	ctx := context.Background()

	sess := newSession("tok-1", testutil.BaseTime.Add(24*time.Hour))
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	_, err = store.GetByToken(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStore_SaveRejectsEmptyToken(t *testing.T) {
	t.Parallel()
	store := NewSessionStore()
	err := store.Save(context.Background(), model.Session{ID: "x"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSessionStore_DeleteByTokenIdempotent(t *testing.T) {
	t.Parallel()
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("tok-1", testutil.BaseTime.Add(time.Hour))))
	require.NoError(t, store.DeleteByToken(ctx, "tok-1"))
	require.NoError(t, store.DeleteByToken(ctx, "tok-1"))
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_DeleteExpired(t *testing.T) {
	t.Parallel()
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("fresh", testutil.BaseTime.Add(time.Hour))))
	require.NoError(t, store.Save(ctx, newSession("stale-1", testutil.BaseTime.Add(-time.Hour))))
	require.NoError(t, store.Save(ctx, newSession("stale-2", testutil.BaseTime.Add(-time.Minute))))

	removed, err := store.DeleteExpired(ctx, testutil.BaseTime)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, 1, store.Len())
}
