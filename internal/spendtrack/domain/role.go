package domain

// Role names are interned string identifiers compared by equality. The
// authorization policy references them as data, not as branching code.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultRoles is the role set assigned at signup.
func DefaultRoles() []string {
	return []string{RoleUser}
}
