package ports

// Package ports defines interfaces (hexagonal ports) for storage and
// capability boundaries. Implementations live in internal/data and
// internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	"github.com/centralhub/hub-core/internal/domain/model"
)

// UserRepository is the principal store. Users are never physically deleted;
// deactivation is the supported off-boarding path.
type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// RoleRepository maintains roles, permissions, and both edge tables.
// Edge assignment is idempotent: assigning an existing edge returns the
// stored edge without error.
type RoleRepository interface {
	CreateRole(ctx context.Context, role model.Role) (model.Role, error)
	GetRole(ctx context.Context, id string) (*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	// DeleteRole removes the role and cascades its permission and user
	// edges. It must not be called for system roles; the service layer
	// enforces that invariant. Returns false when the role does not exist.
	DeleteRole(ctx context.Context, id string) (bool, error)

	CreatePermission(ctx context.Context, perm model.Permission) (model.Permission, error)
	GetPermission(ctx context.Context, id string) (*model.Permission, error)
	FindPermission(ctx context.Context, resource string, action model.Action) (*model.Permission, error)
	ListPermissions(ctx context.Context) ([]model.Permission, error)

	AssignPermission(ctx context.Context, roleID, permissionID string) (model.RolePermission, error)
	RemovePermission(ctx context.Context, roleID, permissionID string) (bool, error)
	RolePermissions(ctx context.Context, roleID string) ([]model.Permission, error)

	AssignRole(ctx context.Context, edge model.UserRole) (model.UserRole, error)
	RemoveRole(ctx context.Context, userID, roleID string) (bool, error)
	UserRoles(ctx context.Context, userID string) ([]model.Role, error)
}

// SessionRepository persists primary sessions indexed by their token string.
type SessionRepository interface {
	Save(ctx context.Context, sess model.Session) error
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	// DeleteByToken is idempotent; deleting an absent session is not an error.
	DeleteByToken(ctx context.Context, token string) error
	// DeleteExpired removes sessions whose expiry precedes now and returns
	// the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ClaimSSOToken groups parameters for the atomic redemption step.
type ClaimSSOToken struct {
	Token    string
	ModuleID string
	Now      time.Time
	Client   model.ClientInfo
}

// SSOTokenRepository persists federation tokens indexed by token string.
type SSOTokenRepository interface {
	Save(ctx context.Context, token model.SSOToken) error
	GetByToken(ctx context.Context, token string) (*model.SSOToken, error)
	// Claim atomically checks that the token exists for the given module,
	// is unexpired, and has never been redeemed, then stamps UsedAt and the
	// redemption client info. Exactly one of N concurrent claims for the
	// same token may succeed; all others receive a TokenInvalid error.
	Claim(ctx context.Context, claim ClaimSSOToken) (*model.SSOToken, error)
	// DeleteExpired removes tokens past expiry regardless of redemption
	// state and returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ModuleDirectory is the read-only lookup consumed by authorization and the
// SSO broker. The hub treats the directory's CRUD and health polling as an
// external concern.
type ModuleDirectory interface {
	GetModule(ctx context.Context, id string) (*model.Module, error)
	GetModuleByName(ctx context.Context, name string) (*model.Module, error)
	ListModules(ctx context.Context) ([]model.Module, error)
}

// ModuleRepository extends the directory with the minimal admin surface
// needed to populate it.
type ModuleRepository interface {
	ModuleDirectory
	CreateModule(ctx context.Context, mod model.Module) (model.Module, error)
	SetModuleActive(ctx context.Context, id string, active bool) (*model.Module, error)
}
