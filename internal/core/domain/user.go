package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of roles a caller can hold. RoleAnonymous is never
// stored on a user; it is assigned to traffic without a valid bearer token.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleWriter    Role = "writer"
	RoleEditor    Role = "editor"
	RoleAdmin     Role = "admin"
)

// DefaultRole is assigned at sign-up when the caller does not ask for one.
const DefaultRole = RoleUser

// Roles lists every known role, anonymous included.
func Roles() []Role {
	return []Role{RoleAnonymous, RoleUser, RoleWriter, RoleEditor, RoleAdmin}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAnonymous, RoleUser, RoleWriter, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// Assignable reports whether r may be stored on a user record.
func (r Role) Assignable() bool {
	return r.Valid() && r != RoleAnonymous
}

// ParseRole converts a raw role name into a Role. An empty string yields DefaultRole.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return DefaultRole, nil
	}
	r := Role(s)
	if !r.Assignable() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// User models an identity held by the user store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthContext is the identity resolved for a single in-flight request.
type AuthContext struct {
	Subject string
	Role    Role
}

// Anonymous returns the AuthContext used when no valid bearer token is present.
func Anonymous() AuthContext {
	return AuthContext{Role: RoleAnonymous}
}

// IsAnonymous reports whether the context carries no authenticated subject.
func (a AuthContext) IsAnonymous() bool {
	return a.Role == RoleAnonymous
}
