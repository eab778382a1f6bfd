package ports

import (
	"context"

	"github.com/cdportal/admin-console/internal/core/domain"
)

// LoginResult is what the authentication endpoint hands back. Role is empty
// when the backend did not report one.
type LoginResult struct {
	Token string
	Role  domain.Role
}

// AuthBackend talks to the external authentication endpoints.
type AuthBackend interface {
	Login(ctx context.Context, username, password string) (LoginResult, error)
	Register(ctx context.Context, reg domain.Registration) error
}

// CompanyBackend is the remote company resource.
type CompanyBackend interface {
	List(ctx context.Context) ([]domain.Company, error)
	Get(ctx context.Context, id domain.ID) (domain.Company, error)
	Create(ctx context.Context, c domain.Company) (domain.Company, error)
	Update(ctx context.Context, id domain.ID, c domain.Company) (domain.Company, error)
	Delete(ctx context.Context, id domain.ID) error
	Search(ctx context.Context, filter domain.CompanyFilter, page domain.Page) (domain.SearchResult[domain.Company], error)
}

// DriverBackend is the remote driver resource.
type DriverBackend interface {
	List(ctx context.Context) ([]domain.Driver, error)
	Get(ctx context.Context, id domain.ID) (domain.Driver, error)
	Create(ctx context.Context, d domain.Driver) (domain.Driver, error)
	Update(ctx context.Context, id domain.ID, d domain.Driver) (domain.Driver, error)
	Delete(ctx context.Context, id domain.ID) error
	Search(ctx context.Context, filter domain.DriverFilter, page domain.Page) (domain.SearchResult[domain.Driver], error)
}

// UserBackend is the remote user administration resource.
type UserBackend interface {
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	UpdateRole(ctx context.Context, id domain.ID, role domain.Role) error
}
