package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/accesskit/identity-service/internal/core/domain"
)

func roleWithCodes(codes ...string) *domain.Role {
	role := &domain.Role{ID: 1, Name: "editor"}
	for i, code := range codes {
		role.Grants = append(role.Grants, domain.Grant{
			RoleID:       role.ID,
			PermissionID: int64(i + 1),
			Permission:   domain.Permission{ID: int64(i + 1), Code: code},
		})
	}
	return role
}

func TestFlattenPermissions_FirstSeenOrder(t *testing.T) {
	got, err := FlattenPermissions(roleWithCodes("users:read", "users:write", "roles:read"))
	if err != nil {
		t.Fatalf("FlattenPermissions returned error: %v", err)
	}
	want := []string{"users:read", "users:write", "roles:read"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFlattenPermissions_Deduplicates(t *testing.T) {
	got, err := FlattenPermissions(roleWithCodes("a", "b", "a"))
	if err != nil {
		t.Fatalf("FlattenPermissions returned error: %v", err)
	}
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFlattenPermissions_Empty(t *testing.T) {
	got, err := FlattenPermissions(&domain.Role{ID: 1, Name: "bare"})
	if err != nil {
		t.Fatalf("FlattenPermissions returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestFlattenPermissions_MissingCode(t *testing.T) {
	role := roleWithCodes("a")
	role.Grants = append(role.Grants, domain.Grant{RoleID: 1, PermissionID: 9})

	if _, err := FlattenPermissions(role); !errors.Is(err, domain.ErrMalformedGrant) {
		t.Fatalf("expected ErrMalformedGrant, got %v", err)
	}
}
