package model

// Role determines which application routes an account may access.
// It is assigned once at account creation and treated as read-only
// by the auth subsystem afterwards.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// AllRoles is a slice of every assignable role.
var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}
