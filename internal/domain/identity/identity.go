// Package identity models the caller on whose behalf an operation runs.
package identity

import (
	"strings"

	"github.com/sarva/backend/internal/domain/shared"
)

// Role is the caller's authorization role
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleSeller Role = "Vendedor"
	RoleGuest  Role = ""
)

// ParseRole maps a claim or header value onto a Role. Unknown values become RoleGuest.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "vendedor", "seller":
		return RoleSeller
	}
	return RoleGuest
}

// String returns the string representation of Role
func (r Role) String() string {
	if r == RoleGuest {
		return "guest"
	}
	return string(r)
}

// Identity is the resolved caller. UserID is opaque.
type Identity struct {
	UserID string
	Role   Role
}

// New creates an identity
func New(userID string, role Role) Identity {
	return Identity{UserID: strings.TrimSpace(userID), Role: role}
}

// IsResolved reports whether the caller has a user id
func (i Identity) IsResolved() bool {
	return i.UserID != ""
}

// IsAdmin reports whether the caller is an administrator
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Require returns ErrUnauthorized when the caller cannot be resolved
func (i Identity) Require() error {
	if !i.IsResolved() {
		return shared.ErrUnauthorized
	}
	return nil
}

// RequireAdmin returns ErrUnauthorized unless the caller is a resolved admin
func (i Identity) RequireAdmin() error {
	if err := i.Require(); err != nil {
		return err
	}
	if !i.IsAdmin() {
		return shared.NewDomainError(shared.CodeUnauthorized, "Administrator role required")
	}
	return nil
}
