package models

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
	// RoleSystem is used by scheduled jobs. It is never stored on a user.
	RoleSystem Role = "system"
)

// Valid reports whether r can be assigned to a user account.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Registrable reports whether r may be chosen at sign-up. Admins are seeded.
func (r Role) Registrable() bool {
	return r == RoleCustomer || r == RoleProvider
}
