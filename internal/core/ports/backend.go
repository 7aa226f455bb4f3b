package ports

import (
	"context"

	"github.com/factoryhq/console/internal/core/domain"
)

// LoginResult is the payload returned by the platform on successful
// authentication. Factory is absent for superadmins.
type LoginResult struct {
	Token   string          `json:"token"`
	User    domain.User     `json:"user"`
	Factory *domain.Factory `json:"factory,omitempty"`
}

// CreateFactoryInput creates a factory together with its owning admin.
type CreateFactoryInput struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
	AdminName     string `json:"admin_name"`
}

// CreateUserInput creates a user inside a factory.
type CreateUserInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

// UpdateUserInput carries a partial user update; nil fields are left as-is.
type UpdateUserInput struct {
	Email *string      `json:"email,omitempty"`
	Name  *string      `json:"name,omitempty"`
	Role  *domain.Role `json:"role,omitempty"`
}

// Backend is the gateway to the platform REST API. Every call is a single
// independent request: no caching, no retries, no deduplication. The token
// argument is attached as a bearer credential when non-empty; an empty token
// still fires the request and lets the platform reject it.
type Backend interface {
	Authenticate(ctx context.Context, email, password string) (*LoginResult, error)
	ListFactories(ctx context.Context, token string) ([]domain.Factory, error)
	CreateFactory(ctx context.Context, token string, in CreateFactoryInput) (*domain.Factory, error)
	ListFactoryUsers(ctx context.Context, token, factoryID string) ([]domain.User, error)
	CreateFactoryUser(ctx context.Context, token, factoryID string, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, token, userID string, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, token, userID string) error
}
