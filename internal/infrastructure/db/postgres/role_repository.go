package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accesskit/identity-service/internal/core/domain"
	"github.com/accesskit/identity-service/internal/core/ports"
)

// RoleRepository implements ports.RoleRepository on PostgreSQL. Mutations go
// through roleWriter so the same statements run either on the pool or inside
// a transaction opened by WithTx.
type RoleRepository struct {
	roleWriter
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{roleWriter: roleWriter{db: pool}, pool: pool}
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

// FindAll returns every role with its grants joined.
func (r *RoleRepository) FindAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	for i := range roles {
		grants, err := loadGrants(ctx, r.pool, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Grants = grants
	}
	return roles, nil
}

// FindByID returns one role with its grants joined.
func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	var role domain.Role
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}

	grants, err := loadGrants(ctx, r.pool, role.ID)
	if err != nil {
		return nil, err
	}
	role.Grants = grants
	return &role, nil
}

// WithTx runs fn inside a single transaction, committing on nil and rolling
// back otherwise.
func (r *RoleRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx ports.RoleWriter) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(ctx, roleWriter{db: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// roleWriter carries the mutating statements over either the pool or a tx.
type roleWriter struct {
	db dbtx
}

var _ ports.RoleWriter = roleWriter{}

// Create inserts a role row.
func (w roleWriter) Create(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := w.db.QueryRow(ctx, `INSERT INTO roles (name) VALUES ($1) RETURNING id, name`, name).
		Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, mapRoleWriteErr("insert role", err)
	}
	return &role, nil
}

// FindPermissionByCode resolves a catalog permission by its code.
func (w roleWriter) FindPermissionByCode(ctx context.Context, code string) (*domain.Permission, error) {
	var p domain.Permission
	err := w.db.QueryRow(ctx, `SELECT id, code FROM permissions WHERE code = $1`, code).
		Scan(&p.ID, &p.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return &p, nil
}

// AttachPermission inserts one grant row.
func (w roleWriter) AttachPermission(ctx context.Context, roleID, permissionID int64) error {
	_, err := w.db.Exec(ctx, `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`,
		roleID, permissionID)
	if err != nil {
		return mapRoleWriteErr("attach permission", err)
	}
	return nil
}

// DetachAll deletes every grant row for the role.
func (w roleWriter) DetachAll(ctx context.Context, roleID int64) error {
	if _, err := w.db.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
		return fmt.Errorf("detach permissions: %w", err)
	}
	return nil
}

// UpdateName renames a role.
func (w roleWriter) UpdateName(ctx context.Context, id int64, name string) error {
	tag, err := w.db.Exec(ctx, `UPDATE roles SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return mapRoleWriteErr("update role", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// Delete removes the role row.
func (w roleWriter) Delete(ctx context.Context, id int64) error {
	tag, err := w.db.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return mapRoleWriteErr("delete role", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// mapRoleWriteErr turns constraint violations into domain outcomes and wraps
// everything else with the failing operation.
func mapRoleWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation, codeUniqueViolation:
			return domain.ErrRoleConflict
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
