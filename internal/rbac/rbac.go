// Package rbac implements the role hierarchy shared by tenants, forests, and
// trees. Roles form a total order; a capability check passes when the actual
// role sits at or above the required one.
package rbac

// Role is a named rank in the hierarchy. Stored as plain text.
type Role string

const (
	RoleVisitor  Role = "Visitor"
	RoleArborist Role = "Arborist"
	RoleRanger   Role = "Ranger"
	RoleWarden   Role = "Warden"
	RoleAdmin    Role = "Admin"
)

// roleOrder lists roles from least to most privileged.
var roleOrder = []Role{RoleVisitor, RoleArborist, RoleRanger, RoleWarden, RoleAdmin}

// HasRole reports whether actual grants at least the privileges of required.
// Unknown roles on either side grant nothing.
func HasRole(actual, required Role) bool {
	ra, rr := rank(actual), rank(required)
	if ra < 0 || rr < 0 {
		return false
	}
	return ra >= rr
}

// Valid reports whether r is one of the known roles.
func Valid(r Role) bool {
	return rank(r) >= 0
}

func rank(r Role) int {
	for i, known := range roleOrder {
		if known == r {
			return i
		}
	}
	return -1
}
