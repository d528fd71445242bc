package models

type Permission struct {
	Name     string `json:"name"`
	Resource string `json:"resource"` // e.g., "bookings", "services", etc.
	Action   string `json:"action"`   // e.g., "create", "read", "update", "delete"
}

func perm(resource, action string) Permission {
	return Permission{Name: action + "_" + resource, Resource: resource, Action: action}
}

// RolePermissions is the static permission matrix checked by
// middleware.RequirePermission. Ownership is checked separately by the
// services layer.
var RolePermissions = map[Role][]Permission{
	RoleCustomer: {
		perm("services", "read"),
		perm("providers", "read"),
		perm("bookings", "create"),
		perm("bookings", "read"),
		perm("bookings", "update"),
		perm("payments", "create"),
		perm("payments", "read"),
		perm("reviews", "create"),
	},
	RoleProvider: {
		perm("services", "read"),
		perm("providers", "read"),
		perm("profile", "create"),
		perm("profile", "update"),
		perm("credentials", "create"),
		perm("credentials", "read"),
		perm("credentials", "delete"),
		perm("bookings", "read"),
		perm("bookings", "update"),
		perm("payments", "read"),
		perm("dashboard", "read"),
	},
	RoleAdmin: {
		perm("services", "create"),
		perm("services", "read"),
		perm("services", "update"),
		perm("services", "delete"),
		perm("providers", "read"),
		perm("providers", "verify"),
		perm("credentials", "read"),
		perm("credentials", "verify"),
		perm("bookings", "read"),
		perm("bookings", "update"),
		perm("payments", "read"),
		perm("users", "read"),
		perm("stats", "read"),
	},
}

func HasPermission(role Role, resource, action string) bool {
	for _, p := range RolePermissions[role] {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}
