package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centralhub/hub-core/config"
)

type stubSweeper struct {
	count int64
	err   error
}

func (s *stubSweeper) SweepExpired(context.Context) (int64, error) {
	return s.count, s.err
}

func TestSweeperService_RequiresTargets(t *testing.T) {
	t.Parallel()

	_, err := NewSweeperService(SweeperServiceOptions{
		Targets: SweepTargets{Sessions: &stubSweeper{}},
	})
	require.Error(t, err)

	_, err = NewSweeperService(SweeperServiceOptions{
		Targets: SweepTargets{Tokens: &stubSweeper{}},
	})
	require.Error(t, err)
}

func TestSweeperService_RunOnce(t *testing.T) {
	t.Parallel()
	svc, err := NewSweeperService(SweeperServiceOptions{
		Targets: SweepTargets{
			Sessions: &stubSweeper{count: 3},
			Tokens:   &stubSweeper{count: 7},
		},
	})
	require.NoError(t, err)

	result, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Sessions)
	assert.Equal(t, int64(7), result.SSOTokens)
}

func TestSweeperService_RunOncePartialFailure(t *testing.T) {
	t.Parallel()
	svc, err := NewSweeperService(SweeperServiceOptions{
		Targets: SweepTargets{
			Sessions: &stubSweeper{err: errors.New("backend down")},
			Tokens:   &stubSweeper{count: 5},
		},
	})
	require.NoError(t, err)

	// One failing target does not stop the other from being swept.
	result, err := svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(5), result.SSOTokens)
}

func TestSweeperService_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	svc, err := NewSweeperService(SweeperServiceOptions{
		Targets: SweepTargets{
			Sessions: &stubSweeper{},
			Tokens:   &stubSweeper{},
		},
		Config: config.SweeperConfig{Interval: time.Hour},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
