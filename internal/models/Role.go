package models

// Role is the numeric role code carried in JWT claims.
// Visitor (0) is also the fallback for requests without a token.
type Role int

const (
	RoleVisitor       Role = 0
	RoleAdministrator Role = 1
	RoleTechnician    Role = 2
	RoleUser          Role = 3
)

// Valid reports whether r is a known role code.
func (r Role) Valid() bool {
	return r >= RoleVisitor && r <= RoleUser
}
