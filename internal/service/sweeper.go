package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/centralhub/hub-core/config"
)

// expiredSweeper is the minimal behavior required from a sweep target.
// SessionService and SSOService both satisfy it.
type expiredSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// SweepTargets groups the stores the sweeper cleans.
type SweepTargets struct {
	Sessions expiredSweeper // Required
	Tokens   expiredSweeper // Required
}

// SweeperServiceOptions groups dependencies for SweeperService.
type SweeperServiceOptions struct {
	Targets SweepTargets
	Config  config.SweeperConfig
	Logger  *slog.Logger
}

// SweeperService periodically deletes expired sessions and SSO tokens.
// Expiry is enforced at validation and redemption time, so a missed cycle
// is not correctness-affecting; failures are logged and the loop keeps
// running.
type SweeperService struct {
	targets SweepTargets
	config  config.SweeperConfig
	logger  *slog.Logger
}

// NewSweeperService constructs a new SweeperService.
func NewSweeperService(opts SweeperServiceOptions) (*SweeperService, error) {
	if opts.Targets.Sessions == nil || opts.Targets.Tokens == nil {
		return nil, errors.New("sweep targets are required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweeper_service")
	}
	return &SweeperService{targets: opts.Targets, config: opts.Config, logger: logger}, nil
}

// Run starts the sweep loop and runs until the context is cancelled.
// Returns nil on graceful shutdown.
func (s *SweeperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting sweeper", "interval", s.config.Interval)
	}

	// Jitter the first cycle so multiple instances starting together do not
	// hammer storage at the same instant.
	s.sleepJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sweeper stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// SweepResult reports the outcome of one sweep cycle.
type SweepResult struct {
	Sessions  int64
	SSOTokens int64
}

// RunOnce executes a single sweep cycle with the configured timeout.
// Partial failure is tolerated: each target is swept independently.
func (s *SweeperService) RunOnce(ctx context.Context) (SweepResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	// Plain errgroup.Group: an error in one target must not cancel the other.
	var result SweepResult
	var g errgroup.Group
	g.Go(func() error {
		n, err := s.targets.Sessions.SweepExpired(ctx)
		result.Sessions = n
		return err
	})
	g.Go(func() error {
		n, err := s.targets.Tokens.SweepExpired(ctx)
		result.SSOTokens = n
		return err
	})

	return result, g.Wait()
}

func (s *SweeperService) runOnce(ctx context.Context) {
	result, err := s.RunOnce(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "sweep cycle failed", "error", err)
		}
		return
	}
	if s.logger != nil && (result.Sessions > 0 || result.SSOTokens > 0) {
		s.logger.InfoContext(ctx, "sweep cycle complete",
			"sessions", result.Sessions, "sso_tokens", result.SSOTokens)
	}
}

func (s *SweeperService) sleepJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup.
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}
