package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
	"github.com/centralhub/hub-core/internal/testutil"
)

func newToken(token, moduleID string) model.SSOToken {
	return model.SSOToken{
		ID:        "tok-" + token,
		UserID:    "user-1",
		ModuleID:  moduleID,
		Token:     token,
		ExpiresAt: testutil.BaseTime.Add(5 * time.Minute),
		CreatedAt: testutil.BaseTime,
	}
}

func TestSSOTokenStore_ClaimSucceedsOnce(t *testing.T) {
	t.Parallel()
	store := NewSSOTokenStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, newToken("t1", "mod-1")))

	claim := ports.ClaimSSOToken{
		Token:    "t1",
		ModuleID: "mod-1",
		Now:      testutil.BaseTime.Add(time.Minute),
		Client:   model.ClientInfo{IP: "10.0.0.1", UserAgent: "module/1.0"},
	}
	row, err := store.Claim(ctx, claim)
	require.NoError(t, err)
	require.NotNil(t, row.UsedAt)
	assert.Equal(t, "10.0.0.1", row.RedeemClient.IP)

	// Second redemption of the same token must fail.
	_, err = store.Claim(ctx, claim)
	assert.True(t, apperrors.IsTokenInvalid(err))
}

func TestSSOTokenStore_ClaimModuleMismatch(t *testing.T) {
	t.Parallel()
	store := NewSSOTokenStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, newToken("t1", "mod-1")))

	_, err := store.Claim(ctx, ports.ClaimSSOToken{
		Token:    "t1",
		ModuleID: "mod-2",
		Now:      testutil.BaseTime,
	})
	assert.True(t, apperrors.IsTokenInvalid(err))

	// The failed claim must not burn the token.
	row, err := store.GetByToken(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, row.Used())
}

func TestSSOTokenStore_ClaimExpired(t *testing.T) {
	t.Parallel()
	store := NewSSOTokenStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, newToken("t1", "mod-1")))

	_, err := store.Claim(ctx, ports.ClaimSSOToken{
		Token:    "t1",
		ModuleID: "mod-1",
		Now:      testutil.BaseTime.Add(6 * time.Minute),
	})
	assert.True(t, apperrors.IsTokenInvalid(err))
}

func TestSSOTokenStore_ClaimUnknownToken(t *testing.T) {
	t.Parallel()
	store := NewSSOTokenStore()
	_, err := store.Claim(context.Background(), ports.ClaimSSOToken{
		Token:    "missing",
		ModuleID: "mod-1",
		Now:      testutil.BaseTime,
	})
	assert.True(t, apperrors.IsTokenInvalid(err))
}

func TestSSOTokenStore_ConcurrentClaimSingleWinner(t *testing.T) {
	t.Parallel()
	store := NewSSOTokenStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, newToken("t1", "mod-1")))

	const racers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Claim(ctx, ports.ClaimSSOToken{
				Token:    "t1",
				ModuleID: "mod-1",
				Now:      testutil.BaseTime.Add(time.Minute),
			})
			if err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners int
	for range wins {
		winners++
	}
	assert.Equal(t, 1, winners)
}

func TestSSOTokenStore_DeleteExpired(t *testing.T) {
	t.Parallel()
	store := NewSSOTokenStore()
	ctx := context.Background()

	fresh := newToken("fresh", "mod-1")
	stale := newToken("stale", "mod-1")
	stale.ExpiresAt = testutil.BaseTime.Add(-time.Minute)
	redeemedStale := newToken("redeemed", "mod-1")
	redeemedStale.ExpiresAt = testutil.BaseTime.Add(-time.Minute)
	usedAt := testutil.BaseTime.Add(-2 * time.Minute)
	redeemedStale.UsedAt = &usedAt

	require.NoError(t, store.Save(ctx, fresh))
	require.NoError(t, store.Save(ctx, stale))
	require.NoError(t, store.Save(ctx, redeemedStale))

	removed, err := store.DeleteExpired(ctx, testutil.BaseTime)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, 1, store.Len())
}

func TestSSOTokenStore_SaveRejectsEmptyToken(t *testing.T) {
	t.Parallel()
	store := NewSSOTokenStore()
	err := store.Save(context.Background(), model.SSOToken{ID: "x"})
	assert.True(t, apperrors.IsValidation(err))
}
