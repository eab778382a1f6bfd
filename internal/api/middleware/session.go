package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/api/metrics"
	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/session"
)

// Context keys set by RequireSession.
const (
	CtxRole    = "role"
	CtxSubject = "subject"
)

// RequireSession rejects requests while the console is logged out and
// exposes the session role and subject to later handlers.
func RequireSession(view ports.SessionView) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !view.Authenticated() {
				return domain.ErrNotAuthenticated
			}
			c.Set(CtxRole, view.Role())
			c.Set(CtxSubject, view.Identity().Subject)
			return next(c)
		}
	}
}

// Rejecter drops the session after the backend refused its credential.
type Rejecter interface {
	Reject(ctx context.Context, cause error)
}

// ResetOnRejection logs the session out when a handler fails because the
// backend no longer accepts the stored credential.
func ResetOnRejection(s Rejecter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil && session.IsRejection(err) {
				metrics.SessionEventsTotal.WithLabelValues("rejected").Inc()
				s.Reject(c.Request().Context(), err)
			}
			return err
		}
	}
}
