package model

import "strings"

// Role is the staff role stored on a user.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleWriter     Role = "writer"
)

// legacyWriter is how older rows spell the writer role.
const legacyWriter = "penulis"

// Roles lists every known role, most privileged first.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleWriter}

// ParseRole normalizes a stored role string. Unknown values are returned
// as-is so that Valid reports them.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == legacyWriter {
		return RoleWriter
	}
	return Role(s)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleWriter:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated user summary carried by a session.
// It is passed by value and never mutated after login.
type Principal struct {
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// Name returns the display name, falling back to the username.
func (p Principal) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
