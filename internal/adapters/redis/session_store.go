// Package redis provides Redis-backed adapters for the hub.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
)

// SessionStore is a Redis-backed session store for production use.
// Keys carry a TTL matching the session's ExpiresAt, so Redis evicts
// expired rows on its own and DeleteExpired is a no-op.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-backed session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: "session:"}
}

// NewSessionStoreWithPrefix creates a session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

// Save stores a session row keyed by its bearer token.
func (s *SessionStore) Save(ctx context.Context, sess model.Session) error {
	if sess.Token == "" {
		return apperrors.Validation("session token cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return apperrors.Validation("session is already expired")
	}

	if err := s.client.Set(ctx, s.prefix+sess.Token, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// GetByToken retrieves a session row by its bearer token.
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, apperrors.NotFound("session")
	}

	data, err := s.client.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("session")
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// DeleteByToken removes a session row. Deleting a missing token is not an error.
func (s *SessionStore) DeleteByToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs make Redis evict expired sessions.
func (s *SessionStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
