package domain

// Permission is a dashboard scope granted through a role
type Permission string

const (
	PermissionStateStats    Permission = "stats:state"
	PermissionDistrictStats Permission = "stats:district"
	PermissionBlockStats    Permission = "stats:block"
	PermissionCentreStats   Permission = "stats:centre"
	PermissionNRCStats      Permission = "stats:nrc"
	PermissionPublicStats   Permission = "stats:public"
	PermissionProfileEdit   Permission = "profile:edit"
	PermissionAccountsSeed  Permission = "accounts:seed"
)

// rolePermissions lists the scopes each role unlocks on the dashboard
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionStateStats, PermissionDistrictStats, PermissionBlockStats,
		PermissionCentreStats, PermissionNRCStats, PermissionPublicStats,
		PermissionProfileEdit, PermissionAccountsSeed,
	},
	RoleDistrict: {
		PermissionDistrictStats, PermissionBlockStats, PermissionCentreStats,
		PermissionNRCStats, PermissionPublicStats, PermissionProfileEdit,
	},
	RoleBlock: {
		PermissionBlockStats, PermissionCentreStats, PermissionPublicStats, PermissionProfileEdit,
	},
	RoleSupervisor: {
		PermissionCentreStats, PermissionPublicStats, PermissionProfileEdit,
	},
	RoleTeacher: {
		PermissionCentreStats, PermissionPublicStats, PermissionProfileEdit,
	},
	RoleNRC: {
		PermissionNRCStats, PermissionPublicStats, PermissionProfileEdit,
	},
	RolePublic: {
		PermissionPublicStats,
	},
}

// Permissions returns the scopes granted by the role
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// PermissionsFor merges the scopes of every role, keeping first-seen order
func PermissionsFor(roles []Role) []Permission {
	seen := make(map[Permission]struct{})
	var out []Permission
	for _, r := range roles {
		for _, p := range rolePermissions[r] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return RolePublic.Permissions()
	}
	return out
}

// HasPermission reports whether any of the roles grants p
func HasPermission(roles []Role, p Permission) bool {
	for _, granted := range PermissionsFor(roles) {
		if granted == p {
			return true
		}
	}
	return false
}
