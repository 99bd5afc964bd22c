package domain

import "errors"

// Expected domain outcomes. The API layer maps these to HTTP status codes;
// anything else is treated as an internal failure and never leaked verbatim.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrRoleConflict       = errors.New("role referential conflict")
	ErrInvalidToken       = errors.New("invalid token")
)

// Internal data-integrity faults. Surfaced to callers as opaque server
// errors, logged with full detail.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMalformedDigest = errors.New("malformed password digest")
	ErrMalformedGrant  = errors.New("malformed permission grant")
)
