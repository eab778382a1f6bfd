package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// UserHandler serves the /users routes.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Email    string `json:"email" validate:"omitempty,email,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=USER ADMIN SUPER_ADMIN"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN SUPER_ADMIN"`
}

// List handles GET /users.
//
// @Summary      List accounts
// @Description  canDelete is false on the caller's own row and for callers below SUPER_ADMIN.
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Register handles POST /users.
//
// @Summary      Register an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account"
// @Success      201   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := h.service.Register(c.Request().Context(), domain.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"username": req.Username})
}

// Delete handles DELETE /users/:id. The key may be an id, username or email.
//
// @Summary      Delete an account
// @Tags         users
// @Param        id   path  string  true  "Id, username or email"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteByKey(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateRole handles PUT /users/:id/role.
//
// @Summary      Change an account's role
// @Tags         users
// @Accept       json
// @Param        id    path  string       true  "Account id"
// @Param        body  body  roleRequest  true  "New role"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req roleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateRoleByKey(c.Request().Context(), c.Param("id"), domain.Role(req.Role)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
