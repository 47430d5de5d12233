// Copyright (c) 2026 Qumran. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to a dashboard account.
type UserRole string

const (
	// RoleAdmin can manage accounts and delete catalog records.
	RoleAdmin UserRole = "admin"

	// RoleEditor can create and edit catalog records.
	RoleEditor UserRole = "editor"
)

// RoleNames lists the assignable roles, lowest first.
func RoleNames() []string {
	return []string{string(RoleEditor), string(RoleAdmin)}
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// # Role Hierarchy

// AtLeast reports whether r grants everything target does. An admin passes
// every editor route; unknown roles pass nothing.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() > 0 && r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleEditor:
		return 10
	default:
		return 0
	}
}
