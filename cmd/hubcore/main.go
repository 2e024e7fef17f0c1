package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/centralhub/hub-core/config"
	"github.com/centralhub/hub-core/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	cfgPtr := &cfg
	if err = bootstrap.ValidateServiceConfig(cfgPtr); err != nil {
		return err
	}

	db, redisClient, err := initInfrastructure(ctx, cfgPtr, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close database failed", "error", cerr)
			}
		}()
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	if db != nil && cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      cfgPtr,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if err = bootstrap.SeedSystemRBAC(ctx, services, logger); err != nil {
		return err
	}

	if cfg.IsDev {
		if err = bootstrap.SeedDevData(ctx, services, logger); err != nil {
			return err
		}
	}

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   cfgPtr,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	enabledServices := bootstrap.GetEnabledServices(cfg)
	logger.InfoContext(ctx, "starting hub-core service",
		"storage_backend", cfg.Storage.Backend,
		"session_store", cfg.Storage.Sessions,
		"enabled_services", enabledServices)
}

// initInfrastructure connects the dependencies the configured storage
// selection actually needs. The in-memory backend runs with no external
// infrastructure at all.
//
//nolint:ireturn // returning redis.UniversalClient keeps the session store decoupled from the client type.
func initInfrastructure(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (*sql.DB, redis.UniversalClient, error) {
	var db *sql.DB
	if cfg.Storage.Backend == config.StorageBackendPostgres {
		var err error
		db, err = bootstrap.ConnectDB(bootstrap.DatabaseConfig{
			DBConfig: cfg.Postgres,
			Logger:   logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
	}

	var redisClient redis.UniversalClient
	if cfg.Storage.Sessions == config.SessionStoreRedis {
		var err error
		redisClient, err = bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
			RedisConfig: cfg.Redis,
			Logger:      logger,
		})
		if err != nil {
			if db != nil {
				if cerr := db.Close(); cerr != nil {
					logger.ErrorContext(ctx, "close database after redis connect failure", "error", cerr)
				}
			}
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	return db, redisClient, nil
}
