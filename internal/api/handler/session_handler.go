package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/api/metrics"
	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/session"
)

// SessionController is the session as the HTTP surface sees it.
type SessionController interface {
	ports.SessionService
	Snapshot() session.Snapshot
}

// SessionHandler serves login, logout and the current session state.
type SessionHandler struct {
	session SessionController
}

func NewSessionHandler(s SessionController) *SessionHandler {
	return &SessionHandler{session: s}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /session/login.
//
// @Summary      Log in
// @Description  Authenticates against the backend and stores the credential locally.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  session.Snapshot
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.session.Login(c.Request().Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.SessionEventsTotal.WithLabelValues("login_failed").Inc()
		}
		return err
	}
	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	return c.JSON(http.StatusOK, h.session.Snapshot())
}

// Logout handles POST /session/logout. It always succeeds.
//
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Success      200  {object}  session.Snapshot
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	return c.JSON(http.StatusOK, h.session.Snapshot())
}

// Current handles GET /session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  session.Snapshot
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session.Snapshot())
}
