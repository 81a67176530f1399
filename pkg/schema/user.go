// Package schema defines the data structures exchanged with the CHAOS memory API.
package schema

import (
	"errors"
	"strings"
)

// ErrInvalidRole is returned when a role string is not one of the known roles.
var ErrInvalidRole = errors.New("invalid role")

// Role is a user's permission level inside a workspace.
type Role string

const (
	RoleMember     Role = "member"
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleMember, RoleOwner, RoleAdmin, RoleSuperadmin}

// ParseRole validates s against the known roles.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// Label returns the capitalized display form, e.g. "Admin".
func (r Role) Label() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// UserProfile is a user record as returned by the profile and admin endpoints.
// TenantID identifies the workspace the user belongs to.
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	TenantID  string    `json:"tenant_id"`
	Role      Role      `json:"role"`
	CreatedAt Timestamp `json:"created_at"`
}

// Stats holds the aggregate counters shown on the admin page.
type Stats struct {
	TotalUsers      int `json:"total_users"`
	TotalWorkspaces int `json:"total_workspaces"`
	TotalMemories   int `json:"total_memories"`
}
