package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// AuthClient implements ports.AuthBackend over /api/auth.
type AuthClient struct {
	c *Client
}

var _ ports.AuthBackend = (*AuthClient)(nil)

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Role        string `json:"role"`
}

// Login exchanges credentials for a bearer token. Rejected credentials map to
// domain.ErrInvalidCredentials.
func (ac *AuthClient) Login(ctx context.Context, username, password string) (ports.LoginResult, error) {
	var resp loginResponse
	err := ac.c.doJSON(ctx, request{
		op:        "login",
		method:    http.MethodPost,
		path:      []string{"api", "auth", "login"},
		body:      loginBody{Username: username, Password: password},
		anonymous: true,
	}, &resp)
	if err != nil {
		switch statusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest:
			return ports.LoginResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return ports.LoginResult{}, err
	}

	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	res := ports.LoginResult{Token: token}
	if r, ok := domain.ParseRole(resp.Role); ok {
		res.Role = r
	}
	return res, nil
}

// Register creates an account. A rejection carries the backend's message, or
// a generic one naming the status.
func (ac *AuthClient) Register(ctx context.Context, reg domain.Registration) error {
	_, err := ac.c.do(ctx, request{
		op:        "register",
		method:    http.MethodPost,
		path:      []string{"api", "auth", "register"},
		body:      reg,
		anonymous: true,
	})
	var te *domain.TransportError
	if errors.As(err, &te) && te.StatusCode != 0 && te.Message == "" {
		te.Message = fmt.Sprintf("Registration failed (%d)", te.StatusCode)
	}
	return err
}
