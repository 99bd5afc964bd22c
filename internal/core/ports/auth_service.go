package ports

import (
	"context"

	"github.com/accesskit/identity-service/internal/core/domain"
)

// SignUpInput carries the fields required to register an account.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	RoleID   int64
}

// AuthService implements credential verification, registration and profile
// retrieval.
type AuthService interface {
	// SignIn verifies credentials and returns a signed bearer token plus
	// the session identity. Unknown email and wrong password are both
	// domain.ErrInvalidCredentials; a disabled account is
	// domain.ErrAccountDisabled.
	SignIn(ctx context.Context, email, password string) (string, *domain.Session, error)
	// SignUp registers an account and signs the caller in.
	SignUp(ctx context.Context, input SignUpInput) (string, *domain.Session, error)
	// Profile returns the session identity for an id without issuing a
	// token. An unknown id returns (nil, nil), distinct from a fetch error.
	Profile(ctx context.Context, id string) (*domain.Session, error)
}
