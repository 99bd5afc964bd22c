package domain

// Permission is a catalog entry identified by a stable code such as
// "users:read". The catalog is reference data; this service never creates
// permissions, it only attaches them to roles.
type Permission struct {
	ID   int64
	Code string
}

// Grant is a row in the role↔permission join table. A (RoleID, PermissionID)
// pair appears at most once; grants are created and deleted only through the
// role administration flows.
type Grant struct {
	RoleID       int64
	PermissionID int64
	Permission   Permission
}

// Role is a named permission grouping together with its joined grants.
type Role struct {
	ID     int64
	Name   string
	Grants []Grant
}

// RoleView is the outward projection of a role: its grants flattened into
// permission codes.
type RoleView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}
