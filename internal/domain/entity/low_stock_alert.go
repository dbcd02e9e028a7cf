package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockAlert aviso emitido cuando un produto confirmado por el servidor queda bajo el mínimo.
type LowStockAlert struct {
	ProductID    string          `json:"product_id"`
	Code         string          `json:"codigo"`
	Name         string          `json:"nome"`
	Category     string          `json:"categoria"`
	CurrentStock decimal.Decimal `json:"quantidade"`
	MinimumStock decimal.Decimal `json:"estoque_minimo"`
	Unit         string          `json:"unidade"`
	TriggeredBy  string          `json:"disparado_por"` // email del usuario
	OccurredAt   time.Time       `json:"ocorrido_em"`
}

// NewLowStockAlert arma la alerta a partir del produto refrescado.
func NewLowStockAlert(p Product, triggeredBy string, at time.Time) LowStockAlert {
	return LowStockAlert{
		ProductID:    p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Category:     p.CategoryName,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		Unit:         p.Unit,
		TriggeredBy:  triggeredBy,
		OccurredAt:   at,
	}
}
