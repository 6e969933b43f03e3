package user

type Role string

const (
	RoleAdmin        Role = "admin"         // Full access
	RoleSupervisor   Role = "supervisor"    // Marks and confirms attendance on site
	RoleAccountant   Role = "accountant"    // Records payments and penalties
	RoleSiteEngineer Role = "site_engineer" // Marks attendance only
	RoleViewer       Role = "viewer"        // Read-only
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// Actor is the authenticated caller a ledger mutation is attributed to.
type Actor struct {
	UserID string
	Role   Role
}
