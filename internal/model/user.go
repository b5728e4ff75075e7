package model

import (
	"time"

	"github.com/google/uuid"
)

// Role defines the access level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ToRole parses a role string into a Role.
func ToRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User represents an account known to the identity layer. Credential data
// lives with the upstream auth provider, not here.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Requester identifies the authenticated caller of an operation. It is
// threaded explicitly through every service call; there is no ambient
// authentication state.
type Requester struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the requester holds the administrator role.
func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}
