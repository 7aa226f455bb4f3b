package handler

import "github.com/factoryhq/console/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// statusResponse acknowledges state-changing calls that return no resource.
type statusResponse struct {
	Status string `json:"status"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// sessionResponse exposes the current principal and factory; the credential
// itself never leaves the server.
type sessionResponse struct {
	User    *domain.User    `json:"user"`
	Factory *domain.Factory `json:"factory,omitempty"`
}

// --- Factories ---

type createFactoryRequest struct {
	Name          string `json:"name"           validate:"required"`
	Code          string `json:"code"           validate:"required,min=2,max=8"`
	AdminEmail    string `json:"admin_email"    validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
	AdminName     string `json:"admin_name"     validate:"required"`
}

// factoriesOverview is the superadmin dashboard payload: the full tenant
// list plus counts derived from it.
type factoriesOverview struct {
	Total     int              `json:"total"`
	Active    int              `json:"active"`
	Inactive  int              `json:"inactive"`
	Factories []domain.Factory `json:"factories"`
}

// --- Users ---

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"     validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=admin supervisor employee"`
}

type updateUserRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1"`
	Role  *string `json:"role,omitempty"  validate:"omitempty,oneof=admin supervisor employee"`
}

// adminDashboard is the factory-admin view: the factory's users with
// per-role counts.
type adminDashboard struct {
	Factory    *domain.Factory     `json:"factory"`
	RoleCounts map[domain.Role]int `json:"role_counts"`
	Users      []domain.User       `json:"users"`
}

// supervisorDashboard narrows the admin view down to the employee team.
type supervisorDashboard struct {
	Factory *domain.Factory `json:"factory"`
	Team    []domain.User   `json:"team"`
}

// employeeDashboard is the principal's own profile inside their factory.
type employeeDashboard struct {
	User    *domain.User    `json:"user"`
	Factory *domain.Factory `json:"factory,omitempty"`
}
