package domain

import (
	"strings"
)

// Role is a user's privilege level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	// RoleUnknown is held by a session whose identity is not yet confirmed
	// by the backend.
	RoleUnknown Role = "unknown"
)

// Valid reports whether r is assignable to a user.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// MinPasswordLength is the minimum password length accepted on create and
// update.
const MinPasswordLength = 8

// User is a backend account as returned by the API.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Role      Role       `json:"role"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
	LastLogin *Timestamp `json:"last_login,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Account is a stored user together with its password hash. It never leaves
// the backend.
type Account struct {
	User
	PasswordHash []byte `json:"-"`
}

// UserCreate is the payload of a create-user request.
type UserCreate struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// Normalize trims the username and applies the default role.
func (c *UserCreate) Normalize() {
	c.Username = strings.TrimSpace(c.Username)
	if c.Role == "" {
		c.Role = RoleUser
	}
}

// Validate checks a normalized create payload.
func (c *UserCreate) Validate() error {
	if c.Username == "" {
		return ErrUsernameRequired
	}
	if len(c.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !c.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// UserUpdate is the payload of an update-user request. Nil fields are left
// unchanged.
type UserUpdate struct {
	Role     *Role   `json:"role,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u *UserUpdate) Empty() bool {
	return u.Role == nil && u.Password == nil
}

// Validate checks the fields that are set.
func (u *UserUpdate) Validate() error {
	if u.Empty() {
		return ErrEmptyUpdate
	}
	if u.Role != nil && !u.Role.Valid() {
		return ErrInvalidRole
	}
	if u.Password != nil && len(*u.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
