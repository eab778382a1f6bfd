package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/rbac"
)

// PermissionsHandler reports what the current session may do, so a UI can
// decide which actions to render.
type PermissionsHandler struct {
	session ports.SessionView
}

func NewPermissionsHandler(view ports.SessionView) *PermissionsHandler {
	return &PermissionsHandler{session: view}
}

type permissionsResponse struct {
	Authenticated bool                               `json:"authenticated"`
	Role          domain.Role                        `json:"role,omitempty"`
	Grants        map[rbac.Resource][]rbac.Operation `json:"grants"`
}

// Get handles GET /permissions.
//
// @Summary      Permissions of the current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  permissionsResponse
// @Router       /permissions [get]
func (h *PermissionsHandler) Get(c echo.Context) error {
	resp := permissionsResponse{Grants: map[rbac.Resource][]rbac.Operation{}}
	if h.session.Authenticated() {
		resp.Authenticated = true
		resp.Role = h.session.Role()
		resp.Grants = rbac.Grants(resp.Role)
	}
	return c.JSON(http.StatusOK, resp)
}
