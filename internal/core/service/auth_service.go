package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/accesskit/identity-service/internal/core/domain"
	"github.com/accesskit/identity-service/internal/core/ports"
)

// AuthService implements sign-in, sign-up and profile retrieval on top of a
// user repository, a password hasher and a token issuer.
type AuthService struct {
	users  ports.UserRepository
	hasher *PasswordHasher
	tokens *TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher *PasswordHasher, tokens *TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// SignIn verifies email/password credentials and returns a bearer token plus
// the session identity. An unknown email and a wrong password both surface as
// domain.ErrInvalidCredentials; the distinction exists only in logs.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info().Str("email", email).Msg("sign-in for unknown email")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user by email: %w", err)
	}

	if !user.Active {
		return "", nil, domain.ErrAccountDisabled
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		s.logger.Info().Str("user_id", user.ID).Msg("sign-in with wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// SignUp registers an account and signs the caller in. The stored row is
// re-fetched with its joins so the returned session is built exactly like a
// sign-in one.
func (s *AuthService) SignUp(ctx context.Context, input ports.SignUpInput) (string, *domain.Session, error) {
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: digest,
		RoleID:       input.RoleID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return "", nil, domain.ErrEmailTaken
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Int64("role_id", created.RoleID).Msg("user registered")
	return s.issueSession(created)
}

// Profile returns the session identity for id without issuing a token. An
// unknown id is an explicit absent result, not an error.
func (s *AuthService) Profile(ctx context.Context, id string) (*domain.Session, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return buildSession(user)
}

// issueSession is the shared tail of SignIn and SignUp: flatten permissions,
// project the session identity and bind a token to the user id.
func (s *AuthService) issueSession(user *domain.User) (string, *domain.Session, error) {
	session, err := buildSession(user)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// buildSession projects a fetched user row into its outward session identity.
// Fields are copied explicitly so the password digest cannot leak.
func buildSession(user *domain.User) (*domain.Session, error) {
	permissions, err := FlattenPermissions(&user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		RoleID: user.RoleID,
		Active: user.Active,
		Role: domain.SessionRole{
			ID:          user.Role.ID,
			Name:        user.Role.Name,
			Permissions: permissions,
		},
	}, nil
}
