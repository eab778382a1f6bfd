package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/ports"
)

// CompanyHandler serves the /companies routes.
type CompanyHandler struct {
	service  ports.CompanyService
	pageSize int
}

func NewCompanyHandler(service ports.CompanyService, pageSize int) *CompanyHandler {
	return &CompanyHandler{service: service, pageSize: pageSize}
}

// Search handles GET /companies.
//
// @Summary      Search companies
// @Description  Free-text search. An email matches the primary contact, a query with digits
// @Description  the registration number, anything else tries name, then city, then state.
// @Tags         companies
// @Produce      json
// @Param        q     query     string  false  "Free-text query"
// @Param        page  query     int     false  "1-based page"  default(1)
// @Param        size  query     int     false  "Page size (1-100)"
// @Success      200   {object}  companyPage
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /companies [get]
func (h *CompanyHandler) Search(c echo.Context) error {
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

// Get handles GET /companies/:id.
//
// @Summary      Get a company
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company id"
// @Success      200  {object}  domain.Company
// @Failure      404  {object}  map[string]string
// @Router       /companies/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	company, err := h.service.Get(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, company)
}

// Create handles POST /companies.
//
// @Summary      Create a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Company  true  "Company"
// @Success      201   {object}  domain.Company
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	var req domain.Company
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.service.Save(c.Request().Context(), req.WithoutID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /companies/:id.
//
// @Summary      Update a company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Company id"
// @Param        body  body      domain.Company  true  "Company"
// @Success      200   {object}  domain.Company
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /companies/{id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	var req domain.Company
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

// Delete handles DELETE /companies/:id.
//
// @Summary      Delete a company
// @Tags         companies
// @Param        id   path  string  true  "Company id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /companies/{id} [delete]
func (h *CompanyHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), domain.ID(c.Param("id"))); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
