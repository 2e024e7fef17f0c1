package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/centralhub/hub-core/internal/data/pgxutil"
	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

const ssoTokenColumns = `id, user_id, module_id, token, expires_at, created_at, used_at,
	mint_ip, mint_user_agent, redeem_ip, redeem_user_agent`

// SSOTokenRepo provides database operations for federation tokens.
type SSOTokenRepo struct {
	DB *sql.DB
}

// NewSSOTokenRepo creates a new SSOTokenRepo.
func NewSSOTokenRepo(db *sql.DB) *SSOTokenRepo {
	return &SSOTokenRepo{DB: db}
}

func scanSSOToken(row pgx.Row) (model.SSOToken, error) {
	var tok model.SSOToken
	var redeemIP, redeemUA *string
	err := row.Scan(
		&tok.ID, &tok.UserID, &tok.ModuleID, &tok.Token,
		&tok.ExpiresAt, &tok.CreatedAt, &tok.UsedAt,
		&tok.MintClient.IP, &tok.MintClient.UserAgent,
		&redeemIP, &redeemUA,
	)
	if err != nil {
		return model.SSOToken{}, err
	}
	if redeemIP != nil || redeemUA != nil {
		tok.RedeemClient = &model.ClientInfo{}
		if redeemIP != nil {
			tok.RedeemClient.IP = *redeemIP
		}
		if redeemUA != nil {
			tok.RedeemClient.UserAgent = *redeemUA
		}
	}
	return tok, nil
}

// Save inserts a token row.
func (r *SSOTokenRepo) Save(ctx context.Context, token model.SSOToken) error {
	if token.Token == "" {
		return apperrors.Validation("sso token cannot be empty")
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO sso_tokens (id, user_id, module_id, token, expires_at, created_at, mint_ip, mint_user_agent)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			token.ID, token.UserID, token.ModuleID, token.Token,
			token.ExpiresAt, token.CreatedAt,
			token.MintClient.IP, token.MintClient.UserAgent,
		)
		return err
	})
	if err != nil {
		return mapPgError(err, "sso token")
	}
	return nil
}

// GetByToken retrieves a token row by its token string.
func (r *SSOTokenRepo) GetByToken(ctx context.Context, token string) (*model.SSOToken, error) {
	var out model.SSOToken
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx,
			`SELECT `+ssoTokenColumns+` FROM sso_tokens WHERE token = $1`, token)
		var scanErr error
		out, scanErr = scanSSOToken(row)
		return scanErr
	})
	if err != nil {
		return nil, mapPgError(err, "sso token")
	}
	return &out, nil
}

// Claim redeems a token in a single conditional UPDATE. The WHERE clause
// carries the full validity predicate, so under concurrent redemption the
// database serializes the writes and exactly one caller sees an affected row.
// Every failure mode collapses to the same TokenInvalid error.
func (r *SSOTokenRepo) Claim(ctx context.Context, claim ports.ClaimSSOToken) (*model.SSOToken, error) {
	var out model.SSOToken
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			UPDATE sso_tokens
			SET used_at = $1, redeem_ip = $2, redeem_user_agent = $3
			WHERE token = $4
			  AND module_id = $5
			  AND used_at IS NULL
			  AND expires_at > $1
			RETURNING `+ssoTokenColumns,
			claim.Now, claim.Client.IP, claim.Client.UserAgent,
			claim.Token, claim.ModuleID,
		)
		var scanErr error
		out, scanErr = scanSSOToken(row)
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.TokenInvalid()
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	return &out, nil
}

// DeleteExpired removes tokens past expiry, redeemed or not.
func (r *SSOTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM sso_tokens WHERE expires_at <= $1`, now)
		if err != nil {
			return err
		}
		removed = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired sso tokens: %w", err)
	}
	return removed, nil
}
