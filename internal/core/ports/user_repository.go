package ports

import (
	"context"

	"github.com/accesskit/identity-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence. Find methods
// return the user with its role and the role's grants joined; absent users
// yield domain.ErrUserNotFound.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create inserts the user row and returns the stored row with joins.
	// A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
