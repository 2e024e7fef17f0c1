package memory

import (
	"context"
	"sync"
	"time"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// SessionStore is an in-memory session table indexed by token.
type SessionStore struct {
	mu      sync.RWMutex
	byToken map[string]model.Session
}

var _ ports.SessionRepository = (*SessionStore)(nil)

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{byToken: make(map[string]model.Session)}
}

// Save persists a session keyed by its token.
func (s *SessionStore) Save(_ context.Context, sess model.Session) error {
	if sess.Token == "" {
		return apperrors.Validation("session token cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[sess.Token] = sess
	return nil
}

// GetByToken returns the session for the given token.
func (s *SessionStore) GetByToken(_ context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byToken[token]
	if !ok {
		return nil, apperrors.NotFound("session not found")
	}
	out := sess
	return &out, nil
}

// DeleteByToken removes the session if present. Idempotent.
func (s *SessionStore) DeleteByToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
	return nil
}

// DeleteExpired removes all sessions past expiry and returns the count.
func (s *SessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for token, sess := range s.byToken {
		if sess.Expired(now) {
			delete(s.byToken, token)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored sessions. Test helper.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byToken)
}
