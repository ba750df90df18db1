package models

// Role defines the user role type. Roles are flat: access checks match a role
// against an explicit set, there is no implied hierarchy between them.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleTA      Role = "ta"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleTA, RoleStudent:
		return true
	}
	return false
}

// AllRoles lists every known role.
var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleTA, RoleStudent}
