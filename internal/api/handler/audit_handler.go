package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cdportal/admin-console/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditHandler lists the recorded audit trail.
type AuditHandler struct {
	reader ports.AuditReader
}

func NewAuditHandler(reader ports.AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// Recent handles GET /audit.
//
// @Summary      Recent audit entries
// @Tags         audit
// @Produce      json
// @Param        actor  query     string  false  "Only entries by this subject"
// @Param        limit  query     int     false  "Maximum entries"  default(50)
// @Success      200    {array}   domain.AuditEntry
// @Failure      403    {object}  map[string]string
// @Router       /audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	limit := defaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAuditLimit {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = n
	}
	entries, err := h.reader.Recent(c.Request().Context(), c.QueryParam("actor"), int64(limit))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
