package domain

import "time"

// Role is the closed set of privilege levels on the platform.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// roleRanks imposes the total order used for minimum-privilege checks.
// A route requiring role R is open to any principal whose rank is >= rank(R).
var roleRanks = map[Role]int{
	RoleEmployee:   1,
	RoleSupervisor: 2,
	RoleAdmin:      3,
	RoleSuperadmin: 4,
}

// Rank returns the integer rank of the role, or 0 for unknown roles so that
// an unrecognised role never outranks anything.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether r is one of the four enumerated roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r satisfies a minimum-role requirement. Equality
// passes: this is a floor, not an exact match, so higher roles inherit every
// lower-role route.
func (r Role) AtLeast(required Role) bool {
	return r.Rank() >= required.Rank()
}

// TenantScoped reports whether the role operates inside a single factory.
// Superadmins act across all factories and carry no factory binding.
func (r Role) TenantScoped() bool {
	return r.Valid() && r != RoleSuperadmin
}

// User models an authenticated principal.
// EmployeeID is the factory-scoped human-readable identifier (e.g. SFLEMP001)
// and is present only for tenant-scoped roles.
type User struct {
	ID          string     `json:"id" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Name        string     `json:"name" validate:"required"`
	Role        Role       `json:"role" validate:"required,oneof=employee supervisor admin superadmin"`
	FactoryID   string     `json:"factory_id,omitempty"`
	FactoryName string     `json:"factory_name,omitempty"`
	EmployeeID  string     `json:"employee_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}
