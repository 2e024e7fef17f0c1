// Package memory provides in-memory repository implementations guarded by
// mutexes. They carry the same semantics as the pgx-backed repositories,
// including the atomic SSO redemption step, and double as fast storage for
// tests and development mode.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// UserStore is an in-memory principal store.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string // email -> id
}

var _ ports.UserRepository = (*UserStore)(nil)

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

// Create inserts a new user. Email uniqueness is enforced case-insensitively.
func (s *UserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return model.User{}, apperrors.Conflictf("email %s already registered", user.Email)
	}
	if _, exists := s.byID[user.ID]; exists {
		return model.User{}, apperrors.Conflictf("user id %s already exists", user.ID)
	}
	s.byID[user.ID] = cloneUser(user)
	s.byEmail[key] = user.ID
	return user, nil
}

// GetByID returns the user with the given id.
func (s *UserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFoundf("user %s not found", id)
	}
	out := cloneUser(user)
	return &out, nil
}

// GetByEmail returns the user with the given email (case-insensitive).
func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.NotFoundf("user with email %s not found", email)
	}
	user := cloneUser(s.byID[id])
	return &user, nil
}

// Update applies a partial update and returns the updated user.
func (s *UserStore) Update(_ context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NotFoundf("user %s not found", id)
	}
	if upd.FullName != nil {
		user.FullName = *upd.FullName
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}
	if upd.ModuleAccess != nil {
		user.ModuleAccess = append([]string(nil), (*upd.ModuleAccess)...)
	}
	if upd.PasswordHash != nil {
		user.PasswordHash = *upd.PasswordHash
	}
	if upd.LastLogin != nil {
		t := *upd.LastLogin
		user.LastLogin = &t
	}
	s.byID[id] = cloneUser(user)
	out := cloneUser(user)
	return &out, nil
}

// List returns all users ordered by email.
func (s *UserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func cloneUser(u model.User) model.User {
	out := u
	out.ModuleAccess = append([]string(nil), u.ModuleAccess...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		out.LastLogin = &t
	}
	return out
}
