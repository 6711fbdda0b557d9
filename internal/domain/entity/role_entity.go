package entity

// Role represents an authorization role.
type Role string

const (
	RoleParent Role = "parent"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleAdmin:
		return true
	}
	return false
}
