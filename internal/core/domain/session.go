package domain

// SessionRole is the role slice of a session identity.
type SessionRole struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Session is the read-time projection of a user returned to callers. It is
// derived per request from the stored User and its joined grants; it carries
// no password material and is never persisted.
type Session struct {
	ID     string      `json:"id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	RoleID int64       `json:"roleId"`
	Active bool        `json:"state"`
	Role   SessionRole `json:"role"`
}
