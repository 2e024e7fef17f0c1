package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users  ports.UserRepository // Required: principal store
	Hasher ports.PasswordHasher // Required: password hashing capability
	Clock  ports.Clock          // Optional: defaults to system time
	Logger *slog.Logger         // Optional: structured logger
}

// UserService manages principal records. Users are never deleted;
// deactivation is the supported off-boarding path, and session validation
// makes it effective immediately despite outstanding signed tokens.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	clock  ports.Clock
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Hasher == nil {
		panic("PasswordHasher is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &UserService{users: opts.Users, hasher: opts.Hasher, clock: clock, logger: opts.Logger}
}

// Create registers a new active user with a hashed password.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: digest,
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
		ModuleAccess: req.ModuleAccess,
		CreatedAt:    s.clock.Now().UTC(),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user created", "user_id", created.ID, "email", created.Email, "role", created.Role)
	}
	out := created.Sanitized()
	return &out, nil
}

// GetByID retrieves a user by id, sanitized for API use.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := user.Sanitized()
	return &out, nil
}

// List returns all users, sanitized.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

// Update applies a partial profile update, hashing any new password.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	upd := model.UserUpdate{
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     req.IsActive,
		ModuleAccess: req.ModuleAccess,
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &digest
	}
	user, err := s.users.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	out := user.Sanitized()
	return &out, nil
}

// Deactivate clears the user's active flag. Existing sessions fail
// validation from the next request on; an SSO token minted before
// deactivation fails redemption with UserInactive.
func (s *UserService) Deactivate(ctx context.Context, id string) (*model.User, error) {
	inactive := false
	user, err := s.users.Update(ctx, id, model.UserUpdate{IsActive: &inactive})
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "user deactivated", "user_id", id)
	}
	out := user.Sanitized()
	return &out, nil
}
