package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can approve leave and correct attendance
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// Claims is the authenticated caller as carried in the access token
type Claims struct {
	UserID     string
	Email      string
	FullName   string
	EmployeeID *string
	CompanyID  string
	Role       Role
}

// IsManager checks if user is manager or owner
func (c Claims) IsManager() bool {
	return c.Role == RoleManager || c.Role == RoleOwner
}

func (c Claims) Can(permission Permission) bool {
	return HasPermission(c.Role, permission)
}

// ActorName is the display name used in activity messages
func (c Claims) ActorName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Email
}
