package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/rbac"
)

// UserService drives the users page.
type UserService struct {
	gate
	backend ports.UserBackend
	auth    ports.AuthBackend
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(session ports.SessionView, backend ports.UserBackend, auth ports.AuthBackend, audit ports.AuditSink, log zerolog.Logger, opts ...Option) *UserService {
	return &UserService{
		gate:    newGate(session, audit, log.With().Str("resource", "user").Logger(), opts),
		backend: backend,
		auth:    auth,
	}
}

// List returns every account with CanDelete recomputed for the current
// session, so callers never offer delete on the operator's own row.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	if err := s.allow(rbac.ResourceUser, rbac.OpView, ""); err != nil {
		return nil, err
	}
	users, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].CanDelete = s.Permits(rbac.OpDelete, users[i])
	}
	return users, nil
}

// Permits reports whether op on target would pass the policy right now.
func (s *UserService) Permits(op rbac.Operation, target domain.User) bool {
	if !s.session.Authenticated() {
		return false
	}
	return rbac.AuthorizeUser(s.session.Role(), s.session.Identity(), op, target) == nil
}

// Lookup finds the account whose id, username or email equals key. Ids are
// matched across every account before usernames, and usernames before
// emails.
func (s *UserService) Lookup(ctx context.Context, key string) (domain.User, error) {
	if key == "" {
		return domain.User{}, domain.ErrMissingIdentifier
	}
	if err := s.allow(rbac.ResourceUser, rbac.OpView, key); err != nil {
		return domain.User{}, err
	}
	return s.find(ctx, key)
}

func (s *UserService) find(ctx context.Context, key string) (domain.User, error) {
	users, err := s.backend.List(ctx)
	if err != nil {
		return domain.User{}, err
	}
	fields := []func(domain.User) string{
		func(u domain.User) string { return u.ID.String() },
		func(u domain.User) string { return u.Username },
		func(u domain.User) string { return u.Email },
	}
	for _, field := range fields {
		for _, u := range users {
			if field(u) == key {
				return u, nil
			}
		}
	}
	return domain.User{}, domain.ErrNotFound
}

// resolve vets key itself against the policy, then looks the account up.
// A key naming the operator is refused before the backend is asked.
func (s *UserService) resolve(ctx context.Context, op rbac.Operation, key string) (domain.User, error) {
	if key == "" {
		return domain.User{}, domain.ErrMissingIdentifier
	}
	if err := s.allowUser(op, domain.User{ID: domain.ID(key), Username: key, Email: key}); err != nil {
		return domain.User{}, err
	}
	return s.find(ctx, key)
}

// Register creates an account. An empty role registers a USER.
func (s *UserService) Register(ctx context.Context, reg domain.Registration) error {
	if err := s.allow(rbac.ResourceUser, rbac.OpCreate, reg.Username); err != nil {
		return err
	}
	reg.Username = strings.TrimSpace(reg.Username)
	if reg.Username == "" || reg.Password == "" {
		return domain.ErrValidation
	}
	if reg.Role == "" {
		reg.Role = domain.RoleUser
	}
	if !reg.Role.Valid() {
		return domain.ErrInvalidRole
	}
	err := s.auth.Register(ctx, reg)
	s.done(rbac.ResourceUser, rbac.OpCreate, reg.Username, err)
	return err
}

// Delete removes target, addressed by id, else username, else email.
func (s *UserService) Delete(ctx context.Context, target domain.User) error {
	if err := s.allowUser(rbac.OpDelete, target); err != nil {
		return err
	}
	key := userKey(target)
	if key == "" {
		return domain.ErrMissingIdentifier
	}
	err := s.backend.Delete(ctx, key)
	s.done(rbac.ResourceUser, rbac.OpDelete, key, err)
	return err
}

// UpdateRole changes target's role. The backend addresses accounts by id
// here, so a target known only by username is rejected.
func (s *UserService) UpdateRole(ctx context.Context, target domain.User, role domain.Role) error {
	if err := s.allowUser(rbac.OpUpdateRole, target); err != nil {
		return err
	}
	if target.ID.IsZero() {
		return domain.ErrMissingIdentifier
	}
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	err := s.backend.UpdateRole(ctx, target.ID, role)
	s.done(rbac.ResourceUser, rbac.OpUpdateRole, target.ID.String(), err)
	return err
}

// DeleteByKey deletes the account addressed by id, username or email.
func (s *UserService) DeleteByKey(ctx context.Context, key string) error {
	target, err := s.resolve(ctx, rbac.OpDelete, key)
	if err != nil {
		return err
	}
	return s.Delete(ctx, target)
}

// UpdateRoleByKey changes the role of the account addressed by key.
func (s *UserService) UpdateRoleByKey(ctx context.Context, key string, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	target, err := s.resolve(ctx, rbac.OpUpdateRole, key)
	if err != nil {
		return err
	}
	return s.UpdateRole(ctx, target, role)
}
