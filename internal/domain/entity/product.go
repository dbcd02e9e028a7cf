package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida aceptadas por la API de estoque.
const (
	UnitPiece    = "UN"
	UnitKilogram = "KG"
	UnitLiter    = "L"
	UnitMeter    = "M"
	UnitBox      = "CX"
)

// ValidUnit indica si u es una unidad conocida.
func ValidUnit(u string) bool {
	switch u {
	case UnitPiece, UnitKilogram, UnitLiter, UnitMeter, UnitBox:
		return true
	}
	return false
}

// Product es el espejo local de un produto de la API remota.
// CurrentStock es siempre el último valor confirmado por el servidor; nunca se ajusta localmente.
type Product struct {
	ID           string
	Code         string // codigo, único en el servidor
	Name         string
	Description  string
	CategoryID   string
	CategoryName string
	CurrentStock decimal.Decimal // quantidade
	MinimumStock decimal.Decimal // estoque_minimo
	Unit         string
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock true cuando el stock actual está estrictamente por debajo del mínimo.
func (p Product) IsLowStock() bool {
	return p.CurrentStock.LessThan(p.MinimumStock)
}

// Deficit unidades que faltan para llegar al mínimo (0 si no hay déficit).
func (p Product) Deficit() decimal.Decimal {
	if !p.IsLowStock() {
		return decimal.Zero
	}
	return p.MinimumStock.Sub(p.CurrentStock)
}
