package ports

import (
	"context"

	"github.com/accesskit/identity-service/internal/core/domain"
)

// RoleWriter groups the mutating role operations so they can run either
// directly on the pool or inside a transaction via WithTx.
type RoleWriter interface {
	// Create inserts a role row. A referential violation yields
	// domain.ErrRoleConflict.
	Create(ctx context.Context, name string) (*domain.Role, error)
	// FindPermissionByCode resolves a catalog permission; unknown codes
	// yield domain.ErrPermissionNotFound.
	FindPermissionByCode(ctx context.Context, code string) (*domain.Permission, error)
	// AttachPermission inserts a grant row for (roleID, permissionID).
	AttachPermission(ctx context.Context, roleID, permissionID int64) error
	// DetachAll deletes every grant row for the role.
	DetachAll(ctx context.Context, roleID int64) error
	// UpdateName renames a role; domain.ErrRoleNotFound when no row matched.
	UpdateName(ctx context.Context, id int64, name string) error
	// Delete removes the role row; domain.ErrRoleNotFound when no row matched.
	Delete(ctx context.Context, id int64) error
}

// RoleRepository defines the interface for role persistence. Find methods
// return roles with their grants joined.
type RoleRepository interface {
	RoleWriter

	FindAll(ctx context.Context) ([]domain.Role, error)
	FindByID(ctx context.Context, id int64) (*domain.Role, error)

	// WithTx runs fn inside a single transaction. The transaction commits
	// when fn returns nil and rolls back otherwise; a role is never
	// observable mid-reconciliation (grants deleted, not yet re-attached).
	WithTx(ctx context.Context, fn func(ctx context.Context, tx RoleWriter) error) error
}
