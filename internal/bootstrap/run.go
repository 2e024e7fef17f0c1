package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centralhub/hub-core/config"
)

// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	name string
	done <-chan struct{}
}

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. Blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 2)

	var httpServer *http.Server
	if cfg.Config.IsHTTPServerEnabled() {
		httpServer = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
	}

	var backgrounds []backgroundServiceHandle
	if cfg.Config.IsSweeperEnabled() && cfg.Services.Sweeper != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := cfg.Services.Sweeper.Run(serviceCtx); err != nil {
				select {
				case errCh <- fmt.Errorf("sweeper failed: %w", err):
				case <-serviceCtx.Done():
				}
			}
		}()
		logger.Info("background service started", "service", "sweeper")
		backgrounds = append(backgrounds, backgroundServiceHandle{name: "sweeper", done: done})
	}

	return waitForShutdown(shutdownDeps{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  httpServer,
		httpTimeout: cfg.Config.HTTP.ShutdownTimeout,
		logger:      logger,
		backgrounds: backgrounds,
	})
}

// shutdownDeps contains dependencies for graceful shutdown.
type shutdownDeps struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	httpTimeout time.Duration
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for a shutdown signal or a service error.
func waitForShutdown(deps shutdownDeps) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		deps.logger.Info("shutting down services...")
		deps.cancel()
		return gracefulStop(deps)
	case err := <-deps.errCh:
		deps.logger.Error("service error", "error", err)
		deps.cancel()
		if stopErr := gracefulStop(deps); stopErr != nil {
			deps.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(deps shutdownDeps) error {
	if deps.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  deps.httpServer,
			Timeout: deps.httpTimeout,
			Logger:  deps.logger,
		}); err != nil {
			return err
		}
	}

	for _, svc := range deps.backgrounds {
		waitForService(svc.done, svc.name, deps.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
