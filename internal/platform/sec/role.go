// Copyright (c) 2026 Minbar. All rights reserved.

package sec

import "slices"

// # User Roles

// UserRole represents the authorization ceiling granted to an account.
type UserRole string

const (
	// RoleChiefImam administers the platform: moderates content and manages roles.
	RoleChiefImam UserRole = "chief-imam"

	// RoleImam is a scholar who answers questions and publishes articles.
	RoleImam UserRole = "imam"

	// RoleCommunity is the default role for registered members.
	RoleCommunity UserRole = "community"
)

// ScholarRoles are the roles allowed to answer questions and author articles.
var ScholarRoles = []UserRole{RoleImam, RoleChiefImam}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level. Unknown roles rank below everyone.
func (r UserRole) level() int {
	switch r {
	case RoleChiefImam:
		return 30
	case RoleImam:
		return 20
	case RoleCommunity:
		return 10
	default:
		return 0
	}
}

// HasAnyRole reports whether role is a member of allowed.
func HasAnyRole(role UserRole, allowed ...UserRole) bool {
	return slices.Contains(allowed, role)
}

// # Principal

// Principal is the acting user as seen by authorization guards.
type Principal struct {
	UserID string
	Role   UserRole
}

// IsAdmin reports whether the principal holds administrative rights.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleChiefImam
}

// IsScholar reports whether the principal may answer questions.
func (p Principal) IsScholar() bool {
	return HasAnyRole(p.Role, ScholarRoles...)
}
