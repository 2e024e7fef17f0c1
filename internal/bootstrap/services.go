package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/centralhub/hub-core/config"
	redisadapter "github.com/centralhub/hub-core/internal/adapters/redis"
	"github.com/centralhub/hub-core/internal/adapters/sweeper"
	"github.com/centralhub/hub-core/internal/auth"
	"github.com/centralhub/hub-core/internal/data"
	"github.com/centralhub/hub-core/internal/data/memory"
	"github.com/centralhub/hub-core/internal/ports"
	"github.com/centralhub/hub-core/internal/service"
	"github.com/centralhub/hub-core/internal/token"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Users    *service.UserService
	RBAC     *service.RBACService
	Authz    *service.AuthorizationService
	Sessions *service.SessionService
	Modules  *service.ModuleService
	SSO      *service.SSOService
	Sweeper  *sweeper.Runner
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups the stores backing service ports. The backend
// selection happens here and nowhere else; services only see interfaces.
type serviceRepositories struct {
	Users    ports.UserRepository
	Roles    ports.RoleRepository
	Sessions ports.SessionRepository
	Tokens   ports.SSOTokenRepository
	Modules  ports.ModuleRepository
}

func buildRepositories(cfg *config.AppConfig, db *sql.DB, redisClient redis.UniversalClient) (*serviceRepositories, error) {
	repos := &serviceRepositories{}

	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		repos.Users = memory.NewUserStore()
		repos.Roles = memory.NewRoleStore()
		repos.Sessions = memory.NewSessionStore()
		repos.Tokens = memory.NewSSOTokenStore()
		repos.Modules = memory.NewModuleStore()
	case config.StorageBackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres backend selected but no database connection")
		}
		repos.Users = data.NewUserRepo(db)
		repos.Roles = data.NewRoleRepo(db)
		repos.Sessions = data.NewSessionRepo(db)
		repos.Tokens = data.NewSSOTokenRepo(db)
		repos.Modules = data.NewModuleRepo(db)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}

	if cfg.Storage.Sessions == config.SessionStoreRedis {
		if redisClient == nil {
			return nil, fmt.Errorf("redis session store selected but no redis connection")
		}
		repos.Sessions = redisadapter.NewSessionStore(redisClient)
	}

	return repos, nil
}

// NewServices wires repositories, the signer, and the password hasher into
// the full service container.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, fmt.Errorf("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	repos, err := buildRepositories(cfg, deps.DB, deps.RedisClient)
	if err != nil {
		return ServiceContainer{}, err
	}

	signer, err := token.NewHMACSigner(token.HMACSignerOptions{
		Secret: []byte(cfg.Auth.SigningSecret),
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("init token signer: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	users := service.NewUserService(service.UserServiceOptions{
		Users:  repos.Users,
		Hasher: hasher,
		Logger: logger,
	})
	rbac := service.NewRBACService(service.RBACServiceOptions{
		Roles:  repos.Roles,
		Logger: logger,
	})
	authz := service.NewAuthorizationService(service.AuthorizationServiceOptions{
		Users:  repos.Users,
		RBAC:   rbac,
		Logger: logger,
	})
	sessions := service.NewSessionService(service.SessionServiceOptions{
		Users:    repos.Users,
		Sessions: repos.Sessions,
		Auth: service.SessionAuthDeps{
			Signer: signer,
			Hasher: hasher,
			TTL:    cfg.Auth.SessionTTL,
			Logger: logger,
		},
	})
	modules := service.NewModuleService(service.ModuleServiceOptions{
		Modules: repos.Modules,
		Logger:  logger,
	})
	sso := service.NewSSOService(service.SSOServiceOptions{
		Stores: service.SSOStores{
			Tokens:  repos.Tokens,
			Modules: repos.Modules,
			Users:   repos.Users,
		},
		Auth: service.SSOAuthDeps{
			Sessions: sessions,
			Authz:    authz,
			Signer:   signer,
		},
		Config: service.SSOConfig{
			TTL:    cfg.Auth.SSOTokenTTL,
			Logger: logger,
		},
	})

	container := ServiceContainer{
		Users:    users,
		RBAC:     rbac,
		Authz:    authz,
		Sessions: sessions,
		Modules:  modules,
		SSO:      sso,
	}

	if cfg.IsSweeperEnabled() {
		runner, rerr := sweeper.NewRunner(sweeper.RunnerOptions{
			Sessions: sessions,
			SSO:      sso,
			Config:   cfg.Sweeper,
			Logger:   logger,
		})
		if rerr != nil {
			return ServiceContainer{}, fmt.Errorf("init sweeper: %w", rerr)
		}
		container.Sweeper = runner
	}

	return container, nil
}

// SeedSystemRBAC creates the built-in roles and permission catalog. Safe to
// run on every startup; existing rows are left untouched.
func SeedSystemRBAC(ctx context.Context, services ServiceContainer, logger *slog.Logger) error {
	if services.RBAC == nil {
		return fmt.Errorf("RBAC service is required")
	}
	if err := services.RBAC.Bootstrap(ctx); err != nil {
		return fmt.Errorf("seed system roles: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "system roles and permission catalog ready")
	}
	return nil
}
