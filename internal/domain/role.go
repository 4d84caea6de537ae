package domain

// Role constants define the allowed user roles. A user's role is fixed at
// registration.
const (
	RoleOwner  = "owner"
	RoleWalker = "walker"
)

// ValidRoles returns the set of valid user roles.
func ValidRoles() []string {
	return []string{RoleOwner, RoleWalker}
}

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}
