package main

import (
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/centralhub/hub-core/config"
	"github.com/centralhub/hub-core/internal/bootstrap"
)

// connectInfra wires up the storage dependencies the configured backend
// needs. Callers own closing whatever comes back non-nil.
//
//nolint:ireturn // returning redis.UniversalClient keeps the session store decoupled from the client type.
func connectInfra(ctx *commandContext) (*sql.DB, redis.UniversalClient, error) {
	var db *sql.DB
	if ctx.Config.Storage.Backend == config.StorageBackendPostgres {
		var err error
		db, err = bootstrap.ConnectDB(bootstrap.DatabaseConfig{
			DBConfig: ctx.Config.Postgres,
			Logger:   ctx.Logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
	}

	var redisClient redis.UniversalClient
	if ctx.Config.Storage.Sessions == config.SessionStoreRedis {
		var err error
		redisClient, err = bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
			RedisConfig: ctx.Config.Redis,
			Logger:      ctx.Logger,
		})
		if err != nil {
			closeInfra(ctx, db, nil)
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	return db, redisClient, nil
}

func closeInfra(ctx *commandContext, db *sql.DB, redisClient redis.UniversalClient) {
	if db != nil {
		if err := db.Close(); err != nil {
			ctx.Logger.ErrorContext(ctx.Ctx, "close database failed", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			ctx.Logger.ErrorContext(ctx.Ctx, "close redis failed", "error", err)
		}
	}
}

// buildServices connects infrastructure and wires the service container.
// The returned cleanup must run after the command finishes.
func buildServices(ctx *commandContext) (bootstrap.ServiceContainer, func(), error) {
	db, redisClient, err := connectInfra(ctx)
	if err != nil {
		return bootstrap.ServiceContainer{}, nil, err
	}
	cleanup := func() { closeInfra(ctx, db, redisClient) }

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &ctx.Config,
		DB:          db,
		RedisClient: redisClient,
		Logger:      ctx.Logger,
	})
	if err != nil {
		cleanup()
		return bootstrap.ServiceContainer{}, nil, err
	}
	return services, cleanup, nil
}

func runMigrate(ctx *commandContext, _ []string) error {
	if ctx.Config.Storage.Backend != config.StorageBackendPostgres {
		return fmt.Errorf("migrate requires the postgres storage backend")
	}
	db, _, err := connectInfra(ctx)
	if err != nil {
		return err
	}
	defer closeInfra(ctx, db, nil)
	return bootstrap.RunMigrations(ctx.Ctx, db, ctx.Logger)
}

func runSeed(ctx *commandContext, _ []string) error {
	if ctx.Config.Storage.Backend == config.StorageBackendPostgres {
		if err := runMigrate(ctx, nil); err != nil {
			return err
		}
	}

	services, cleanup, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := bootstrap.SeedSystemRBAC(ctx.Ctx, services, ctx.Logger); err != nil {
		return err
	}
	if ctx.Config.IsDev {
		return bootstrap.SeedDevData(ctx.Ctx, services, ctx.Logger)
	}
	return nil
}
