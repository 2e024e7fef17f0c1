package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/centralhub/hub-core/internal/data/pgxutil"
	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
)

const moduleColumns = `id, name, title, url, is_active, created_at`

// ModuleRepo provides database operations for the module directory.
type ModuleRepo struct {
	DB *sql.DB
}

// NewModuleRepo creates a new ModuleRepo.
func NewModuleRepo(db *sql.DB) *ModuleRepo {
	return &ModuleRepo{DB: db}
}

func scanModule(row pgx.Row) (model.Module, error) {
	var m model.Module
	err := row.Scan(&m.ID, &m.Name, &m.Title, &m.URL, &m.IsActive, &m.CreatedAt)
	return m, err
}

// GetModule retrieves a module by id.
func (r *ModuleRepo) GetModule(ctx context.Context, id string) (*model.Module, error) {
	return r.getBy(ctx, `SELECT `+moduleColumns+` FROM modules WHERE id = $1`, id)
}

// GetModuleByName retrieves a module by its unique name.
func (r *ModuleRepo) GetModuleByName(ctx context.Context, name string) (*model.Module, error) {
	return r.getBy(ctx, `SELECT `+moduleColumns+` FROM modules WHERE name = $1`, name)
}

// ListModules returns all modules ordered by name.
func (r *ModuleRepo) ListModules(ctx context.Context) ([]model.Module, error) {
	var out []model.Module
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+moduleColumns+` FROM modules ORDER BY name`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			mod, err := scanModule(rows)
			if err != nil {
				return err
			}
			out = append(out, mod)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return out, nil
}

// CreateModule inserts a new module. Duplicate names map to a conflict error.
func (r *ModuleRepo) CreateModule(ctx context.Context, mod model.Module) (model.Module, error) {
	var out model.Module
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO modules (id, name, title, url, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+moduleColumns,
			mod.ID, mod.Name, mod.Title, mod.URL, mod.IsActive, mod.CreatedAt,
		)
		var scanErr error
		out, scanErr = scanModule(row)
		return scanErr
	})
	if err != nil {
		return model.Module{}, mapPgError(err, "module")
	}
	return out, nil
}

// SetModuleActive flips the module's active flag and returns the stored row.
func (r *ModuleRepo) SetModuleActive(ctx context.Context, id string, active bool) (*model.Module, error) {
	var out model.Module
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			UPDATE modules SET is_active = $1 WHERE id = $2
			RETURNING `+moduleColumns,
			active, id,
		)
		var scanErr error
		out, scanErr = scanModule(row)
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ModuleNotFound(id)
		}
		return nil, mapPgError(err, "module")
	}
	return &out, nil
}

func (r *ModuleRepo) getBy(ctx context.Context, query, arg string) (*model.Module, error) {
	var out model.Module
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var scanErr error
		out, scanErr = scanModule(conn.QueryRow(ctx, query, arg))
		return scanErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ModuleNotFound(arg)
		}
		return nil, mapPgError(err, "module")
	}
	return &out, nil
}
