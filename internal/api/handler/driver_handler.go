package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// DriverHandler serves the /drivers routes.
type DriverHandler struct {
	service  ports.DriverService
	pageSize int
}

func NewDriverHandler(service ports.DriverService, pageSize int) *DriverHandler {
	return &DriverHandler{service: service, pageSize: pageSize}
}

// Search handles GET /drivers.
//
// @Summary      Search drivers
// @Description  Free-text search. An email matches the driver email, a query with digits the
// @Description  license number, two words first and last name, a single word tries first name,
// @Description  then last name, then city.
// @Tags         drivers
// @Produce      json
// @Param        q     query     string  false  "Free-text query"
// @Param        page  query     int     false  "1-based page"  default(1)
// @Param        size  query     int     false  "Page size (1-100)"
// @Success      200   {object}  driverPage
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /drivers [get]
func (h *DriverHandler) Search(c echo.Context) error {
	page, err := pageFromQuery(c, h.pageSize)
	if err != nil {
		return err
	}
	res, trace, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResponse(res, page, trace))
}

// Get handles GET /drivers/:id.
//
// @Summary      Get a driver
// @Tags         drivers
// @Produce      json
// @Param        id   path      string  true  "Driver id"
// @Success      200  {object}  domain.Driver
// @Failure      404  {object}  map[string]string
// @Router       /drivers/{id} [get]
func (h *DriverHandler) Get(c echo.Context) error {
	driver, err := h.service.Get(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, driver)
}

// Create handles POST /drivers.
//
// @Summary      Create a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Driver  true  "Driver"
// @Success      201   {object}  domain.Driver
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /drivers [post]
func (h *DriverHandler) Create(c echo.Context) error {
	var req domain.Driver
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.service.Save(c.Request().Context(), req.WithoutID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /drivers/:id.
//
// @Summary      Update a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Driver id"
// @Param        body  body      domain.Driver  true  "Driver"
// @Success      200   {object}  domain.Driver
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /drivers/{id} [put]
func (h *DriverHandler) Update(c echo.Context) error {
	var req domain.Driver
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.ID = domain.ID(c.Param("id"))
	if req.ID.IsZero() {
		return domain.ErrMissingIdentifier
	}
	updated, err := h.service.Save(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /drivers/:id.
//
// @Summary      Delete a driver
// @Tags         drivers
// @Param        id   path  string  true  "Driver id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /drivers/{id} [delete]
func (h *DriverHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), domain.ID(c.Param("id"))); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
