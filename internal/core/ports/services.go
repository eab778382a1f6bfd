package ports

import (
	"context"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/search"
)

// CompanyService is the companies page controller.
type CompanyService interface {
	Search(ctx context.Context, q string, page domain.Page) (domain.SearchResult[domain.Company], search.Trace, error)
	Get(ctx context.Context, id domain.ID) (domain.Company, error)
	Save(ctx context.Context, c domain.Company) (domain.Company, error)
	Delete(ctx context.Context, id domain.ID) error
}

// DriverService is the drivers page controller.
type DriverService interface {
	Search(ctx context.Context, q string, page domain.Page) (domain.SearchResult[domain.Driver], search.Trace, error)
	Get(ctx context.Context, id domain.ID) (domain.Driver, error)
	Save(ctx context.Context, d domain.Driver) (domain.Driver, error)
	Delete(ctx context.Context, id domain.ID) error
}

// UserService is the users page controller.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Lookup(ctx context.Context, key string) (domain.User, error)
	Register(ctx context.Context, reg domain.Registration) error
	Delete(ctx context.Context, target domain.User) error
	UpdateRole(ctx context.Context, target domain.User, role domain.Role) error
	DeleteByKey(ctx context.Context, key string) error
	UpdateRoleByKey(ctx context.Context, key string, role domain.Role) error
}
