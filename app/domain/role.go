package domain

import (
	"fmt"
	"strings"
)

// Role is a permission tier shown as an access badge on the dashboard
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleDistrict   Role = "district"
	RoleBlock      Role = "block"
	RoleSupervisor Role = "supervisor"
	RoleTeacher    Role = "teacher"
	RoleNRC        Role = "nrc"
	RolePublic     Role = "public"
)

// rolePrecedence orders roles from most to least privileged.
var rolePrecedence = []Role{
	RoleAdmin,
	RoleDistrict,
	RoleBlock,
	RoleSupervisor,
	RoleNRC,
	RoleTeacher,
	RolePublic,
}

// AllRoles returns every known role, most privileged first
func AllRoles() []Role {
	roles := make([]Role, len(rolePrecedence))
	copy(roles, rolePrecedence)
	return roles
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r.rank() >= 0
}

func (r Role) String() string {
	return string(r)
}

func (r Role) rank() int {
	for i, known := range rolePrecedence {
		if r == known {
			return i
		}
	}
	return -1
}

// ParseRole converts a raw string into a Role
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return role, nil
}

// PrimaryRole picks the most privileged role out of roles.
// Accounts without any role row are treated as public.
func PrimaryRole(roles []Role) Role {
	primary := RolePublic
	best := RolePublic.rank()
	for _, r := range roles {
		if rank := r.rank(); rank >= 0 && rank < best {
			primary = r
			best = rank
		}
	}
	return primary
}
