package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/report"
)

// DashboardHandler resumen de la pantalla principal y reporte PDF.
type DashboardHandler struct {
	uc     *appanalytics.DashboardUseCase
	report *report.LowStockReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, report *report.LowStockReportUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, report: report}
}

// GetSummary devuelve totales, más movidos y productos bajo el mínimo.
// GET /api/dashboard
//
// Los totales los calcula la API de estoque; aquí sólo se combinan.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetSessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// LowStockReport godoc
// @Summary      Reporte PDF de estoque bajo
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/reports/low-stock.pdf [get]
func (h *DashboardHandler) LowStockReport(c *fiber.Ctx) error {
	pdf, err := h.report.Generate(c.UserContext(), GetSessionID(c), GetEmail(c))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="estoque-baixo.pdf"`)
	return c.Send(pdf)
}
