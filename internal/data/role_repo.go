package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/centralhub/hub-core/internal/data/pgxutil"
	"github.com/centralhub/hub-core/internal/domain/model"
)

const (
	roleColumns = `id, name, display_name, description, is_system, created_at`
	permColumns = `id, resource, action, description, created_at`
)

// RoleRepo provides database operations for roles, permissions, and the
// role-permission and user-role edge tables.
type RoleRepo struct {
	DB *sql.DB
}

// NewRoleRepo creates a new RoleRepo.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{DB: db}
}

func scanRole(row pgx.Row) (model.Role, error) {
	var r model.Role
	err := row.Scan(&r.ID, &r.Name, &r.DisplayName, &r.Description, &r.IsSystem, &r.CreatedAt)
	return r, err
}

func scanPermission(row pgx.Row) (model.Permission, error) {
	var p model.Permission
	err := row.Scan(&p.ID, &p.Resource, &p.Action, &p.Description, &p.CreatedAt)
	return p, err
}

// CreateRole inserts a new role. Duplicate names map to a conflict error.
func (r *RoleRepo) CreateRole(ctx context.Context, role model.Role) (model.Role, error) {
	var out model.Role
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO roles (id, name, display_name, description, is_system, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+roleColumns,
			role.ID, role.Name, role.DisplayName, role.Description, role.IsSystem, role.CreatedAt,
		)
		var scanErr error
		out, scanErr = scanRole(row)
		return scanErr
	})
	if err != nil {
		return model.Role{}, mapPgError(err, "role")
	}
	return out, nil
}

// GetRole retrieves a role by id.
func (r *RoleRepo) GetRole(ctx context.Context, id string) (*model.Role, error) {
	return r.getRoleBy(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
}

// GetRoleByName retrieves a role by its unique name.
func (r *RoleRepo) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return r.getRoleBy(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name)
}

// ListRoles returns all roles ordered by name.
func (r *RoleRepo) ListRoles(ctx context.Context) ([]model.Role, error) {
	var out []model.Role
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			role, err := scanRole(rows)
			if err != nil {
				return err
			}
			out = append(out, role)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return out, nil
}

// DeleteRole removes a role. The edge tables declare ON DELETE CASCADE, so
// permission and user assignments disappear in the same statement.
func (r *RoleRepo) DeleteRole(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, mapPgError(err, "role")
	}
	return affected > 0, nil
}

// CreatePermission inserts a new permission. The (resource, action) pair is
// unique; duplicates map to a conflict error.
func (r *RoleRepo) CreatePermission(ctx context.Context, perm model.Permission) (model.Permission, error) {
	var out model.Permission
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO permissions (id, resource, action, description, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+permColumns,
			perm.ID, perm.Resource, perm.Action, perm.Description, perm.CreatedAt,
		)
		var scanErr error
		out, scanErr = scanPermission(row)
		return scanErr
	})
	if err != nil {
		return model.Permission{}, mapPgError(err, "permission")
	}
	return out, nil
}

// GetPermission retrieves a permission by id.
func (r *RoleRepo) GetPermission(ctx context.Context, id string) (*model.Permission, error) {
	return r.getPermBy(ctx, `SELECT `+permColumns+` FROM permissions WHERE id = $1`, id)
}

// FindPermission retrieves a permission by its (resource, action) pair.
func (r *RoleRepo) FindPermission(ctx context.Context, resource string, action model.Action) (*model.Permission, error) {
	var out model.Permission
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx,
			`SELECT `+permColumns+` FROM permissions WHERE resource = $1 AND action = $2`,
			resource, action,
		)
		var scanErr error
		out, scanErr = scanPermission(row)
		return scanErr
	})
	if err != nil {
		return nil, mapPgError(err, "permission")
	}
	return &out, nil
}

// ListPermissions returns all permissions ordered by resource then action.
func (r *RoleRepo) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	var out []model.Permission
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+permColumns+` FROM permissions ORDER BY resource, action`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			perm, err := scanPermission(rows)
			if err != nil {
				return err
			}
			out = append(out, perm)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return out, nil
}

// AssignPermission links a permission to a role. Idempotent: re-assigning an
// existing edge returns the stored edge via ON CONFLICT DO UPDATE.
func (r *RoleRepo) AssignPermission(ctx context.Context, roleID, permissionID string) (model.RolePermission, error) {
	var out model.RolePermission
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		// The no-op DO UPDATE makes RETURNING yield the row in both the
		// insert and the already-present case.
		row := conn.QueryRow(ctx, `
			INSERT INTO role_permissions (role_id, permission_id, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (role_id, permission_id) DO UPDATE SET role_id = EXCLUDED.role_id
			RETURNING role_id, permission_id, created_at`,
			roleID, permissionID,
		)
		return row.Scan(&out.RoleID, &out.PermissionID, &out.CreatedAt)
	})
	if err != nil {
		return model.RolePermission{}, mapPgError(err, "role permission")
	}
	return out, nil
}

// RemovePermission unlinks a permission from a role. Returns false when the
// edge did not exist.
func (r *RoleRepo) RemovePermission(ctx context.Context, roleID, permissionID string) (bool, error) {
	return r.deleteEdge(ctx,
		`DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`,
		roleID, permissionID, "role permission")
}

// RolePermissions returns the permissions directly linked to a role.
func (r *RoleRepo) RolePermissions(ctx context.Context, roleID string) ([]model.Permission, error) {
	var out []model.Permission
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT p.id, p.resource, p.action, p.description, p.created_at
			FROM permissions p
			JOIN role_permissions rp ON rp.permission_id = p.id
			WHERE rp.role_id = $1
			ORDER BY p.resource, p.action`,
			roleID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			perm, err := scanPermission(rows)
			if err != nil {
				return err
			}
			out = append(out, perm)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("role permissions: %w", err)
	}
	return out, nil
}

// AssignRole links a role to a user. Idempotent in the same way as
// AssignPermission.
func (r *RoleRepo) AssignRole(ctx context.Context, edge model.UserRole) (model.UserRole, error) {
	var out model.UserRole
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO user_roles (user_id, role_id, assigned_by, assigned_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, role_id) DO UPDATE SET user_id = EXCLUDED.user_id
			RETURNING user_id, role_id, assigned_by, assigned_at`,
			edge.UserID, edge.RoleID, edge.AssignedBy, edge.AssignedAt,
		)
		return row.Scan(&out.UserID, &out.RoleID, &out.AssignedBy, &out.AssignedAt)
	})
	if err != nil {
		return model.UserRole{}, mapPgError(err, "user role")
	}
	return out, nil
}

// RemoveRole unlinks a role from a user. Returns false when the edge did not
// exist.
func (r *RoleRepo) RemoveRole(ctx context.Context, userID, roleID string) (bool, error) {
	return r.deleteEdge(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`,
		userID, roleID, "user role")
}

// UserRoles returns the roles assigned to a user.
func (r *RoleRepo) UserRoles(ctx context.Context, userID string) ([]model.Role, error) {
	var out []model.Role
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT r.id, r.name, r.display_name, r.description, r.is_system, r.created_at
			FROM roles r
			JOIN user_roles ur ON ur.role_id = r.id
			WHERE ur.user_id = $1
			ORDER BY r.name`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			role, err := scanRole(rows)
			if err != nil {
				return err
			}
			out = append(out, role)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("user roles: %w", err)
	}
	return out, nil
}

func (r *RoleRepo) getRoleBy(ctx context.Context, query string, arg any) (*model.Role, error) {
	var out model.Role
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var scanErr error
		out, scanErr = scanRole(conn.QueryRow(ctx, query, arg))
		return scanErr
	})
	if err != nil {
		return nil, mapPgError(err, "role")
	}
	return &out, nil
}

func (r *RoleRepo) getPermBy(ctx context.Context, query string, arg any) (*model.Permission, error) {
	var out model.Permission
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var scanErr error
		out, scanErr = scanPermission(conn.QueryRow(ctx, query, arg))
		return scanErr
	})
	if err != nil {
		return nil, mapPgError(err, "permission")
	}
	return &out, nil
}

func (r *RoleRepo) deleteEdge(ctx context.Context, query, a, b, entity string) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, query, a, b)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, mapPgError(err, entity)
	}
	return affected > 0, nil
}
