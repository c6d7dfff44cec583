package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pawprint-social/backend/internal/models"
	"github.com/pawprint-social/backend/internal/services"
)

// ExportHandler serves the health report export. Every failure is a 400
// with an {"error": ...} body.
type ExportHandler struct {
	reports services.HealthReportService
}

func NewExportHandler(reports services.HealthReportService) *ExportHandler {
	return &ExportHandler{reports: reports}
}

func (h *ExportHandler) RegisterExportRoutes(g *echo.Group) {
	g.POST("/export-health-report", h.ExportHealthReport)
}

func (h *ExportHandler) ExportHealthReport(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req models.ExportHealthReportRequest
	if err := c.Bind(&req); err != nil {
		return exportError(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if msg, ok := he.Message.(string); ok {
				return exportError(c, msg)
			}
		}
		return exportError(c, err.Error())
	}

	report, err := h.reports.Export(c.Request().Context(), user, req)
	if err != nil {
		var ve *models.ValidationError
		switch {
		case errors.As(err, &ve):
			return exportError(c, ve.Error())
		case errors.Is(err, models.ErrNotFound):
			return exportError(c, "pet not found")
		case errors.Is(err, models.ErrForbidden):
			return exportError(c, "pet does not belong to the caller")
		}
		c.Logger().Error(err)
		return exportError(c, "failed to generate report")
	}
	return c.JSON(http.StatusOK, report)
}

func exportError(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
