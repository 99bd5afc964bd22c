package ports

import (
	"context"

	"github.com/accesskit/identity-service/internal/core/domain"
)

// RoleService administers roles and their permission grants.
type RoleService interface {
	// Create inserts a role and attaches the requested permission codes
	// best-effort: unknown codes are skipped, not failed. The returned view
	// lists only the codes actually attached.
	Create(ctx context.Context, name string, permissionCodes []string) (*domain.RoleView, error)
	List(ctx context.Context) ([]domain.RoleView, error)
	// Get returns domain.ErrRoleNotFound for an unknown id.
	Get(ctx context.Context, id int64) (*domain.RoleView, error)
	// Update renames the role and replaces its grants (delete then
	// re-attach, same best-effort policy as Create) in one transaction.
	Update(ctx context.Context, id int64, name string, permissionCodes []string) (*domain.RoleView, error)
	// Remove deletes the role's grants and the role row in one transaction.
	Remove(ctx context.Context, id int64) error
}
