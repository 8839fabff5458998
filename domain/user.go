package domain

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleUser      Role = "user"
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
)

// Roles lists every accepted role in ascending privilege order.
var Roles = []Role{RoleUser, RoleDeveloper, RoleAdmin}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDeveloper, RoleAdmin:
		return true
	}
	return false
}

// Rank orders roles by privilege; unknown roles rank below user.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleDeveloper:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether r grants at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// User is a flat projection of one row of the users table.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Nickname     string    `json:"nickname,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks the invariants that must hold before a user row is written.
func (u *User) Validate() error {
	if u == nil || u.ID == "" {
		return ErrInvalidPayload
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// DisplayName prefers the full name, then the nickname, then the e-mail.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.FullName != "":
		return u.FullName
	case u.Nickname != "":
		return u.Nickname
	}
	return u.Email
}
