package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/accesskit/identity-service/internal/core/domain"
	"github.com/accesskit/identity-service/internal/core/ports"
)

// RoleService administers roles and their permission grants.
type RoleService struct {
	repo   ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, logger: logger}
}

// Create inserts a role and attaches the requested permission codes.
// Unknown codes are skipped, never failed: callers get back the subset that
// was actually attached, and skips are logged for observability.
func (s *RoleService) Create(ctx context.Context, name string, permissionCodes []string) (*domain.RoleView, error) {
	role, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	attached, skipped, err := attachByCode(ctx, s.repo, role.ID, permissionCodes)
	if err != nil {
		return nil, err
	}
	s.logSkipped(role.ID, skipped)

	return &domain.RoleView{ID: role.ID, Name: role.Name, Permissions: attached}, nil
}

// List returns every role with its flattened permission codes.
func (s *RoleService) List(ctx context.Context) ([]domain.RoleView, error) {
	roles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	views := make([]domain.RoleView, 0, len(roles))
	for i := range roles {
		permissions, err := FlattenPermissions(&roles[i])
		if err != nil {
			return nil, err
		}
		views = append(views, domain.RoleView{
			ID:          roles[i].ID,
			Name:        roles[i].Name,
			Permissions: permissions,
		})
	}
	return views, nil
}

// Get returns one role with flattened permissions.
func (s *RoleService) Get(ctx context.Context, id int64) (*domain.RoleView, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	permissions, err := FlattenPermissions(role)
	if err != nil {
		return nil, err
	}
	return &domain.RoleView{ID: role.ID, Name: role.Name, Permissions: permissions}, nil
}

// Update renames the role and replaces its grants: every existing grant is
// deleted and the requested codes re-attached best-effort. The whole
// reconciliation runs in one transaction so a concurrent read never observes
// the role stripped of its grants.
func (s *RoleService) Update(ctx context.Context, id int64, name string, permissionCodes []string) (*domain.RoleView, error) {
	var attached, skipped []string
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx ports.RoleWriter) error {
		if err := tx.UpdateName(ctx, id, name); err != nil {
			return err
		}
		if err := tx.DetachAll(ctx, id); err != nil {
			return err
		}
		var err error
		attached, skipped, err = attachByCode(ctx, tx, id, permissionCodes)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logSkipped(id, skipped)

	return &domain.RoleView{ID: id, Name: name, Permissions: attached}, nil
}

// Remove deletes the role's grants and then the role row, atomically, so no
// grant ever references a deleted role.
func (s *RoleService) Remove(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx ports.RoleWriter) error {
		if err := tx.DetachAll(ctx, id); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
}

// attachByCode resolves each requested code against the permission catalog
// and inserts a grant for the ones that exist. It reports both outcomes;
// only the attached list is surfaced to callers.
func attachByCode(ctx context.Context, w ports.RoleWriter, roleID int64, codes []string) (attached, skipped []string, err error) {
	attached = make([]string, 0, len(codes))
	for _, code := range codes {
		permission, err := w.FindPermissionByCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrPermissionNotFound) {
				skipped = append(skipped, code)
				continue
			}
			return nil, nil, fmt.Errorf("find permission %q: %w", code, err)
		}
		if err := w.AttachPermission(ctx, roleID, permission.ID); err != nil {
			return nil, nil, err
		}
		attached = append(attached, permission.Code)
	}
	return attached, skipped, nil
}

func (s *RoleService) logSkipped(roleID int64, skipped []string) {
	if len(skipped) == 0 {
		return
	}
	s.logger.Warn().Int64("role_id", roleID).Strs("codes", skipped).Msg("skipped unknown permission codes")
}
