package rbac

// Roles form a closed enumeration; anything else falls back to the read-only
// capability set.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleViewer  = "viewer"
)

// Capabilities granted wholesale per role at login time.
const (
	CapUserCreate = "user.create"
	CapUserRead   = "user.read"
	CapUserUpdate = "user.update"
	CapUserDelete = "user.delete"
)

// CapabilitiesFor maps a role name to its capability set. Total over all
// strings: unknown and future roles get the read-only set, never full access.
func CapabilitiesFor(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{CapUserCreate, CapUserRead, CapUserUpdate, CapUserDelete}
	case RoleManager:
		return []string{CapUserCreate, CapUserRead, CapUserUpdate}
	case RoleCashier:
		return []string{CapUserRead}
	default:
		return []string{CapUserRead}
	}
}

// Catalog lists the capability sets of every known role.
func Catalog() map[string][]string {
	return map[string][]string{
		RoleAdmin:   CapabilitiesFor(RoleAdmin),
		RoleManager: CapabilitiesFor(RoleManager),
		RoleCashier: CapabilitiesFor(RoleCashier),
		RoleViewer:  CapabilitiesFor(RoleViewer),
	}
}

// KnownRole reports whether the role belongs to the closed enumeration.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleCashier, RoleViewer:
		return true
	}
	return false
}
