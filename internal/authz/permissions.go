package authz

import "github.com/Renan360Brasil/melody-academy-control/internal/model"

// rolePermissions maps each role to the exact set of page routes it may
// open. Matching is literal string membership, not prefix or glob: every
// protected route must be enumerated here per role. The table is seeded
// at process start and never mutated.
var rolePermissions = map[model.Role][]string{
	model.RoleAdmin: {
		"/",
		"/students",
		"/teachers",
		"/courses",
		"/enrollments",
		"/financial",
		"/schedule",
		"/settings",
	},
	model.RoleTeacher: {"/", "/schedule", "/settings"},
	model.RoleStudent: {"/", "/schedule", "/settings"},
}

// CanAccessRoute reports whether user may open route.
// A nil user can access nothing (fail closed).
func CanAccessRoute(user *model.AuthUser, route string) bool {
	if user == nil {
		return false
	}
	for _, allowed := range rolePermissions[user.Role] {
		if allowed == route {
			return true
		}
	}
	return false
}

// AllowedRoutes returns a copy of the route set granted to a role.
func AllowedRoutes(role model.Role) []string {
	routes := rolePermissions[role]
	out := make([]string, len(routes))
	copy(out, routes)
	return out
}
