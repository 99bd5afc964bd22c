package service

import (
	"fmt"

	"github.com/accesskit/identity-service/internal/core/domain"
)

// FlattenPermissions converts a role's joined grants into a flat list of
// permission codes. Each code appears once, in first-seen order of the grant
// list; the join table's composite key makes duplicates impossible in
// well-formed data, so deduplication here only guards against a corrupt read.
// A grant missing its nested permission code is a data-integrity fault.
func FlattenPermissions(role *domain.Role) ([]string, error) {
	codes := make([]string, 0, len(role.Grants))
	seen := make(map[string]struct{}, len(role.Grants))
	for _, grant := range role.Grants {
		code := grant.Permission.Code
		if code == "" {
			return nil, fmt.Errorf("%w: role %d grant on permission %d has no code",
				domain.ErrMalformedGrant, grant.RoleID, grant.PermissionID)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}
