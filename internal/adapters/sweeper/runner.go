// Package sweeper provides an adapter to run the expiry sweep loop.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/centralhub/hub-core/config"
	"github.com/centralhub/hub-core/internal/service"
)

// Runner constructs the sweeper service and runs the cleanup loop.
type Runner struct {
	sweeper *service.SweeperService
	logger  *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Sessions *service.SessionService
	SSO      *service.SSOService
	Config   config.SweeperConfig
	Logger   *slog.Logger
}

// NewRunner creates a new sweeper runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session service is required")
	}
	if opts.SSO == nil {
		return nil, errors.New("sso service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	sweeper, err := service.NewSweeperService(service.SweeperServiceOptions{
		Targets: service.SweepTargets{
			Sessions: opts.Sessions,
			Tokens:   opts.SSO,
		},
		Config: opts.Config,
		Logger: opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("wire sweeper service: %w", err)
	}

	return &Runner{sweeper: sweeper, logger: opts.Logger}, nil
}

// Run starts the sweep loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting sweeper runner")
	return r.sweeper.Run(ctx)
}
