package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/centralhub/hub-core/internal/data/pgxutil"
	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
)

// SessionRepo provides database operations for primary sessions.
type SessionRepo struct {
	DB *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

// Save inserts a session row.
func (r *SessionRepo) Save(ctx context.Context, sess model.Session) error {
	if sess.Token == "" {
		return apperrors.Validation("session token cannot be empty")
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO sessions (id, user_id, token, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			sess.ID, sess.UserID, sess.Token, sess.ExpiresAt, sess.CreatedAt,
		)
		return err
	})
	if err != nil {
		return mapPgError(err, "session")
	}
	return nil
}

// GetByToken retrieves a session row by its bearer token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	var out model.Session
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT id, user_id, token, expires_at, created_at
			FROM sessions WHERE token = $1`,
			token,
		)
		return row.Scan(&out.ID, &out.UserID, &out.Token, &out.ExpiresAt, &out.CreatedAt)
	})
	if err != nil {
		return nil, mapPgError(err, "session")
	}
	return &out, nil
}

// DeleteByToken removes a session row. Deleting a missing token is not an error.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry precedes now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
		if err != nil {
			return err
		}
		removed = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return removed, nil
}
