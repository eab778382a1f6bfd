package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// UserClient implements ports.UserBackend over /api/users.
type UserClient struct {
	c *Client
}

var _ ports.UserBackend = (*UserClient)(nil)

func (uc *UserClient) List(ctx context.Context) ([]domain.User, error) {
	raw, err := uc.c.do(ctx, request{op: "list users", method: http.MethodGet, path: []string{"api", "users"}})
	if err != nil {
		return nil, err
	}
	users, err := decodeList[domain.User](raw)
	if err != nil {
		return nil, &domain.TransportError{Op: "list users", Err: err}
	}
	return users, nil
}

// Delete removes the account addressed by id. The backend path segment may
// be an id, a username or an email, whichever identified the record.
func (uc *UserClient) Delete(ctx context.Context, id string) error {
	_, err := uc.c.do(ctx, request{
		op:     "delete user",
		method: http.MethodDelete,
		path:   []string{"api", "users", url.PathEscape(id)},
	})
	return err
}

// UpdateRole sends the new role as a query parameter with an empty body.
func (uc *UserClient) UpdateRole(ctx context.Context, id domain.ID, role domain.Role) error {
	_, err := uc.c.do(ctx, request{
		op:     "update user role",
		method: http.MethodPut,
		path:   []string{"api", "users", url.PathEscape(id.String()), "role"},
		query:  url.Values{"role": []string{role.String()}},
	})
	return err
}
