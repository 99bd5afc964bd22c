package domain

import "time"

// User models a stored account row together with its joined role aggregate.
// PasswordHash never leaves the core: outward responses are built as Session
// projections, field by field.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	RoleID       int64
	Active       bool
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
