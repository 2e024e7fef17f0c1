package config

import "fmt"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"hubcore"`
	Password string `env:"PASSWORD"                envDefault:"hubcore"`
	Name     string `env:"NAME"                    envDefault:"hubcore"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the session store.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// StorageBackend selects the persistence backend.
type StorageBackend string

const (
	// StorageBackendMemory keeps all state in process memory. Dev and test only.
	StorageBackendMemory StorageBackend = "memory"
	// StorageBackendPostgres persists all state in PostgreSQL.
	StorageBackendPostgres StorageBackend = "postgres"
)

// SessionStoreKind selects where primary session rows live.
type SessionStoreKind string

const (
	// SessionStoreBackend keeps sessions in the storage backend.
	SessionStoreBackend SessionStoreKind = "backend"
	// SessionStoreRedis keeps sessions in Redis with TTL-based eviction.
	SessionStoreRedis SessionStoreKind = "redis"
)

// StorageConfig selects the persistence backends.
type StorageConfig struct {
	// Backend selects the principal, RBAC, module, and token store.
	// Valid values: memory, postgres
	Backend StorageBackend `env:"BACKEND" envDefault:"postgres"`

	// Sessions selects the session store. Valid values: backend, redis
	Sessions SessionStoreKind `env:"SESSIONS" envDefault:"backend"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	switch s.Backend {
	case StorageBackendMemory, StorageBackendPostgres:
	default:
		s.Backend = StorageBackendPostgres
	}
	switch s.Sessions {
	case SessionStoreBackend, SessionStoreRedis:
	default:
		s.Sessions = SessionStoreBackend
	}
}

// Validate reports configuration combinations that cannot work.
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case StorageBackendMemory, StorageBackendPostgres:
	default:
		return fmt.Errorf("invalid storage backend: %q (valid options: memory, postgres)", s.Backend)
	}
	switch s.Sessions {
	case SessionStoreBackend, SessionStoreRedis:
	default:
		return fmt.Errorf("invalid session store: %q (valid options: backend, redis)", s.Sessions)
	}
	return nil
}
