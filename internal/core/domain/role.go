package domain

import "strings"

// Role is the privilege level attached to a session. The set is closed.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Roles lists every valid role in increasing privilege order.
var Roles = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role. Matching is exact; the backend
// emits upper-case names and lower-case input is not a role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

func (r Role) String() string { return string(r) }
