package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/core/domain"
	"github.com/cdportal/admin-console/internal/core/search"
)

// pageFromQuery reads the 1-based ?page= and ?size= parameters and returns
// the 0-based page the backend expects.
func pageFromQuery(c echo.Context, defaultSize int) (domain.Page, error) {
	page := domain.Page{Index: 0, Size: defaultSize}

	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		page.Index = n - 1
	}
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return page, echo.NewHTTPError(http.StatusBadRequest, "size must be between 1 and 100")
		}
		page.Size = n
	}
	return page.Normalize(), nil
}

// pageResponse is the search result envelope. Page is 1-based.
type pageResponse[T any] struct {
	Items         []T      `json:"items"`
	Page          int      `json:"page"`
	Size          int      `json:"size"`
	TotalPages    int      `json:"totalPages"`
	TotalElements int64    `json:"totalElements"`
	MatchedBy     string   `json:"matchedBy"`
	Attempts      []string `json:"attempts"`
	// Stale marks a response overtaken by a newer search; UIs drop it.
	Stale bool `json:"stale"`
}

func newPageResponse[T any](res domain.SearchResult[T], page domain.Page, trace search.Trace) pageResponse[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return pageResponse[T]{
		Items:         items,
		Page:          page.Index + 1,
		Size:          page.Size,
		TotalPages:    res.TotalPages,
		TotalElements: res.TotalElements,
		MatchedBy:     trace.Winner,
		Attempts:      trace.Attempts,
		Stale:         trace.Stale,
	}
}

// companyPage and driverPage exist for the swagger docs.
type companyPage = pageResponse[domain.Company]
type driverPage = pageResponse[domain.Driver]
