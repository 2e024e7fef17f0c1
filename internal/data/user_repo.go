// Package data provides PostgreSQL-backed repositories for the hub.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/centralhub/hub-core/internal/data/pgxutil"
	"github.com/centralhub/hub-core/internal/domain/model"
)

const userColumns = `id, email, password_hash, full_name, role, is_active, module_access, created_at, last_login`

// UserRepo provides database operations for users.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.IsActive, &u.ModuleAccess, &u.CreatedAt, &u.LastLogin,
	)
	return u, err
}

// Create inserts a new user. Duplicate emails map to a conflict error.
func (r *UserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO users (id, email, password_hash, full_name, role, is_active, module_access, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+userColumns,
			user.ID, user.Email, user.PasswordHash, user.FullName,
			user.Role, user.IsActive, user.ModuleAccess, user.CreatedAt,
		)
		var scanErr error
		out, scanErr = scanUser(row)
		return scanErr
	})
	if err != nil {
		return model.User{}, mapPgError(err, "user")
	}
	return out, nil
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// Update applies a partial update and returns the stored row.
func (r *UserRepo) Update(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	setClause, args := buildUserUpdateClause(upd)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := "UPDATE users SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + userColumns

	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var scanErr error
		out, scanErr = scanUser(conn.QueryRow(ctx, query, args...))
		return scanErr
	})
	if err != nil {
		return nil, mapPgError(err, "user")
	}
	return &out, nil
}

// List returns all users ordered by email.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *UserRepo) getBy(ctx context.Context, query string, arg any) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var scanErr error
		out, scanErr = scanUser(conn.QueryRow(ctx, query, arg))
		return scanErr
	})
	if err != nil {
		return nil, mapPgError(err, "user")
	}
	return &out, nil
}

// buildUserUpdateClause builds the SQL SET clause and args for a partial update.
func buildUserUpdateClause(upd model.UserUpdate) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if upd.FullName != nil {
		setParts = append(setParts, fmt.Sprintf("full_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*upd.FullName))
	}
	if upd.Role != nil {
		setParts = append(setParts, fmt.Sprintf("role = $%d", nextIdx()))
		args = append(args, *upd.Role)
	}
	if upd.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", nextIdx()))
		args = append(args, *upd.IsActive)
	}
	if upd.ModuleAccess != nil {
		setParts = append(setParts, fmt.Sprintf("module_access = $%d", nextIdx()))
		args = append(args, *upd.ModuleAccess)
	}
	if upd.PasswordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", nextIdx()))
		args = append(args, *upd.PasswordHash)
	}
	if upd.LastLogin != nil {
		setParts = append(setParts, fmt.Sprintf("last_login = $%d", nextIdx()))
		args = append(args, *upd.LastLogin)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}
