// Package entities contains core business entities.
package entities

import "time"

// Role is the coarse permission level of a user inside a tenant.
type Role string

const (
	// RoleAdmin owns the tenant.
	RoleAdmin Role = "admin"
	// RoleManager manages teams and tasks.
	RoleManager Role = "manager"
	// RoleUser works on assigned tasks.
	RoleUser Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// IsStaff reports whether r receives lifecycle notifications for the whole tenant.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is a domain representation of a tenant member.
type User struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}

// Actor is the authenticated caller as supplied by the identity provider.
type Actor struct {
	ID       string
	Name     string
	Role     Role
	TenantID string
	TeamIDs  []string
}

// DisplayName returns the name used in human-readable messages.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
