package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for identity.
// ProviderID is empty until an external OAuth identity is linked.
type User struct {
	ID             string
	Email          string
	ProviderID     string
	Name           string
	ProfilePicture string
	Role           Role
	Children       []Child
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Child is profile data carried on the user record; auth never reads it.
type Child struct {
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Interests []string `json:"interests"`
}

// NewUser returns a user with creation defaults applied.
func NewUser(email, name string) *User {
	return &User{
		Email:    NormalizeEmail(email),
		Name:     strings.TrimSpace(name),
		Role:     RoleParent,
		Children: []Child{},
		IsActive: true,
	}
}

// NormalizeEmail trims and lowercases an address so lookups and the unique
// index agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Identity returns the request-scoped identity for u.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
