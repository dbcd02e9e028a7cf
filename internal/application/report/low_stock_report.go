// Package report genera el reporte PDF de reposición de estoque.
package report

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
)

// LowStockReport datos que se imprimen en el PDF.
type LowStockReport struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	Items       []dto.ReplenishmentSuggestionDTO
}

// LowStockPDFGenerator puerto de salida para generar el PDF.
type LowStockPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, r LowStockReport) ([]byte, error)
}

// ReplenishmentSource lista de reposición (inventory.ReplenishmentUseCase).
type ReplenishmentSource interface {
	GenerateReplenishmentList(ctx context.Context, sessionID string) ([]dto.ReplenishmentSuggestionDTO, error)
}

// LowStockReportUseCase arma el reporte con los valores actuales del servidor.
type LowStockReportUseCase struct {
	source    ReplenishmentSource
	generator LowStockPDFGenerator
	now       func() time.Time
}

func NewLowStockReportUseCase(source ReplenishmentSource, generator LowStockPDFGenerator) *LowStockReportUseCase {
	return &LowStockReportUseCase{source: source, generator: generator, now: time.Now}
}

// Generate devuelve los bytes del PDF. generatedBy se imprime en el pie (email de la sesión).
func (uc *LowStockReportUseCase) Generate(ctx context.Context, sessionID, generatedBy string) ([]byte, error) {
	items, err := uc.source.GenerateReplenishmentList(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateLowStockPDF(ctx, LowStockReport{
		Title:       "Relatório de estoque baixo",
		GeneratedAt: uc.now(),
		GeneratedBy: generatedBy,
		Items:       items,
	})
}
