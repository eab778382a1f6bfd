package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/rbac"
)

func newContext(role domain.Role) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(CtxRole, role)
	}
	return c
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRBAC_Allows(t *testing.T) {
	c := newContext(domain.RoleSuperAdmin)

	called := false
	handler := RBAC(domain.RoleSuperAdmin)(func(c echo.Context) error {
		called = true
		return ok(c)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRBAC_Forbids(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, "", "ROOT"} {
		c := newContext(role)
		handler := RBAC(domain.RoleSuperAdmin)(func(c echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})
		if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %q: err = %v, want ErrForbidden", role, err)
		}
	}
}

func TestPermit(t *testing.T) {
	cases := []struct {
		role domain.Role
		op   rbac.Operation
		want bool
	}{
		{domain.RoleUser, rbac.OpSearch, true},
		{domain.RoleUser, rbac.OpCreate, false},
		{domain.RoleAdmin, rbac.OpUpdate, true},
		{domain.RoleAdmin, rbac.OpDelete, false},
		{domain.RoleSuperAdmin, rbac.OpDelete, true},
		{"", rbac.OpView, false},
	}
	for _, tc := range cases {
		err := Permit(rbac.ResourceCompany, tc.op)(ok)(newContext(tc.role))
		if got := err == nil; got != tc.want {
			t.Errorf("%s %s: allowed = %v, want %v (err %v)", tc.role, tc.op, got, tc.want, err)
		}
	}
}

type stubView struct {
	authenticated bool
	role          domain.Role
}

func (s stubView) Authenticated() bool       { return s.authenticated }
func (s stubView) Role() domain.Role         { return s.role }
func (s stubView) Identity() domain.Identity { return domain.Identity{Subject: "alice"} }
func (s stubView) Token() string             { return "" }

func TestRequireSession(t *testing.T) {
	c := newContext("")
	err := RequireSession(stubView{})(ok)(c)
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("anonymous: err = %v", err)
	}

	c = newContext("")
	err = RequireSession(stubView{authenticated: true, role: domain.RoleAdmin})(func(c echo.Context) error {
		if c.Get(CtxRole) != domain.RoleAdmin || c.Get(CtxSubject) != "alice" {
			t.Fatalf("context not populated: %v %v", c.Get(CtxRole), c.Get(CtxSubject))
		}
		return ok(c)
	})(c)
	if err != nil {
		t.Fatalf("authenticated: %v", err)
	}
}

type recordingRejecter struct{ causes []error }

func (r *recordingRejecter) Reject(_ context.Context, cause error) {
	r.causes = append(r.causes, cause)
}

func TestResetOnRejection(t *testing.T) {
	rej := &recordingRejecter{}
	mw := ResetOnRejection(rej)

	expired := &domain.TransportError{Op: "companies.search", StatusCode: http.StatusUnauthorized}
	_ = mw(func(echo.Context) error { return expired })(newContext(""))
	if len(rej.causes) != 1 {
		t.Fatalf("401 from backend did not reset the session")
	}

	badLogin := errors.Join(domain.ErrInvalidCredentials, expired)
	_ = mw(func(echo.Context) error { return badLogin })(newContext(""))
	_ = mw(func(echo.Context) error { return domain.ErrForbidden })(newContext(""))
	_ = mw(ok)(newContext(""))
	if len(rej.causes) != 1 {
		t.Fatalf("unexpected resets: %v", rej.causes)
	}
}
