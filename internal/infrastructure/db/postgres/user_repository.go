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

// UserRepository implements ports.UserRepository on PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ ports.UserRepository = (*UserRepository)(nil)

const userColumns = `u.id, u.email, u.name, u.password_hash, u.role_id, u.is_active,
	u.created_at, u.updated_at, r.id, r.name`

// FindByEmail fetches a user by email with role and grants joined.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1`, email)
}

// FindByID fetches a user by id with role and grants joined.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+`
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1`, id)
}

// Create inserts the user row and fetches it back with joins so the caller
// gets the same aggregate shape a lookup produces.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO users
		(id, email, name, password_hash, role_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.RoleID,
		user.Active, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return r.FindByID(ctx, user.ID)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.RoleID,
		&user.Active, &user.CreatedAt, &user.UpdatedAt,
		&user.Role.ID, &user.Role.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	grants, err := loadGrants(ctx, r.pool, user.Role.ID)
	if err != nil {
		return nil, err
	}
	user.Role.Grants = grants
	return &user, nil
}

// loadGrants reads the join rows for a role together with the permission each
// one points at. Ordering by permission id keeps the flattened code list
// deterministic.
func loadGrants(ctx context.Context, db dbtx, roleID int64) ([]domain.Grant, error) {
	rows, err := db.Query(ctx, `SELECT rp.role_id, rp.permission_id, p.id, p.code
		FROM role_permissions rp JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1 ORDER BY rp.permission_id`, roleID)
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}
	defer rows.Close()

	var grants []domain.Grant
	for rows.Next() {
		var g domain.Grant
		if err := rows.Scan(&g.RoleID, &g.PermissionID, &g.Permission.ID, &g.Permission.Code); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}
	return grants, nil
}
