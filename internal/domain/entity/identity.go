package entity

// Identity is what the authentication middleware attaches to a request
// after the token has been verified and the user re-loaded.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// HasRole reports whether the identity carries role.
func (i Identity) HasRole(role Role) bool {
	return i.Role == role
}

// Owns reports whether the identity is the owner of resourceOwnerID.
func (i Identity) Owns(resourceOwnerID string) bool {
	return i.ID != "" && i.ID == resourceOwnerID
}
