package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

// idealFactor stock ideal = mínimo * 1.5
var idealFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera la lista de reposición a partir de los productos bajo mínimo del servidor.
type ReplenishmentUseCase struct {
	sessions SessionProvider
	products repository.ProductStore
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(sessions SessionProvider, products repository.ProductStore) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{sessions: sessions, products: products}
}

// GenerateReplenishmentList devuelve los productos estrictamente bajo el mínimo con la cantidad
// sugerida para volver al stock ideal, ordenados por cobertura (agotados primero).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, sessionID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Lista del servidor (estoque_baixo=true usa <=, se vuelve a filtrar con la regla estricta)
	raw, err := uc.products.ListLowStock(ctx, uc.sessions.Authenticator(sessionID))
	if err != nil {
		return nil, err
	}

	// 2. Sugerencias
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(raw))
	for _, p := range raw {
		if !p.IsLowStock() {
			continue
		}
		ideal := p.MinimumStock.Mul(idealFactor)
		qty := ideal.Sub(p.CurrentStock)
		if qty.LessThan(decimal.Zero) {
			qty = decimal.Zero
		}
		coverage := decimal.Zero
		if p.MinimumStock.GreaterThan(decimal.Zero) {
			coverage = p.CurrentStock.Div(p.MinimumStock).Round(4)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:     p.ID,
			Code:          p.Code,
			Name:          p.Name,
			CategoryName:  p.CategoryName,
			Unit:          p.Unit,
			CurrentStock:  p.CurrentStock,
			MinimumStock:  p.MinimumStock,
			Deficit:       p.Deficit(),
			IdealStock:    ideal,
			SuggestedQty:  qty,
			EstimatedCost: qty.Mul(p.CostPrice).Round(2),
			Coverage:      coverage,
		})
	}

	// 3. Orden: menor cobertura, luego mayor déficit absoluto, luego código
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.Coverage.Equal(b.Coverage) {
			return a.Coverage.LessThan(b.Coverage)
		}
		if !a.Deficit.Equal(b.Deficit) {
			return a.Deficit.GreaterThan(b.Deficit)
		}
		return a.Code < b.Code
	})

	// 4. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].PriorityRank = i + 1
	}
	return suggestions, nil
}
