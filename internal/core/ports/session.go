package ports

import (
	"context"

	"github.com/cdportal/admin-console/internal/core/domain"
)

// SessionView is the read side of the session that page controllers use for
// gating decisions. They never mutate it.
type SessionView interface {
	Authenticated() bool
	Role() domain.Role
	Identity() domain.Identity
	Token() string
}

// SessionService is the full session lifecycle used by the login surfaces.
type SessionService interface {
	SessionView
	Initialize(ctx context.Context) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context)
}
