package testutil

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/centralhub/hub-core/internal/domain/model"
)

// BaseTime is a fixed reference instant for deterministic fixtures.
var BaseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// UserOption mutates a fixture user.
type UserOption func(*model.User)

// NewUser builds an active operator user with a usable bcrypt hash for
// the password "hunter2!".
func NewUser(opts ...UserOption) model.User {
	u := model.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: HashPassword("hunter2!"),
		FullName:     "Test User",
		Role:         model.RoleOperator,
		IsActive:     true,
		CreatedAt:    BaseTime,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// WithEmail sets the fixture user's email.
func WithEmail(email string) UserOption {
	return func(u *model.User) { u.Email = email }
}

// WithRole sets the fixture user's primary role.
func WithRole(role model.RoleName) UserOption {
	return func(u *model.User) { u.Role = role }
}

// WithModuleAccess sets the fixture user's direct module grants.
func WithModuleAccess(names ...string) UserOption {
	return func(u *model.User) { u.ModuleAccess = names }
}

// Inactive deactivates the fixture user.
func Inactive() UserOption {
	return func(u *model.User) { u.IsActive = false }
}

// WithPassword sets the fixture user's password hash from a plaintext.
func WithPassword(plaintext string) UserOption {
	return func(u *model.User) { u.PasswordHash = HashPassword(plaintext) }
}

// HashPassword bcrypt-hashes a plaintext at minimum cost for fast tests.
func HashPassword(plaintext string) string {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(digest)
}

// NewModule builds an active module fixture.
func NewModule(name, rawURL string) model.Module {
	return model.Module{
		ID:        uuid.NewString(),
		Name:      name,
		Title:     name,
		URL:       rawURL,
		IsActive:  true,
		CreatedAt: BaseTime,
	}
}
