package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalProducts  int `json:"total_products"`
	ActiveProducts int `json:"active_products"`
	Categories     int `json:"categories"`
	MovementsToday int `json:"movements_today"`
	LowStockCount  int `json:"low_stock_count"`

	// Top 5 por cantidad movida en los últimos 30 días (calculado por la API).
	MostMoved []MovedProductDTO `json:"most_moved"`

	// Productos estrictamente por debajo del mínimo.
	LowStock []ProductResponse `json:"low_stock"`

	GeneratedAt time.Time `json:"generated_at"`
}

// MovedProductDTO producto con su total movido.
type MovedProductDTO struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// ReplenishmentSuggestionDTO producto bajo mínimo con la cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	ProductID     string          `json:"product_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CategoryName  string          `json:"category_name,omitempty"`
	Unit          string          `json:"unit"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	Deficit       decimal.Decimal `json:"deficit"`
	IdealStock    decimal.Decimal `json:"ideal_stock"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	// Cobertura = stock actual / mínimo (0 = agotado). Menor cobertura, mayor prioridad.
	Coverage     decimal.Decimal `json:"coverage"`
	PriorityRank int             `json:"priority_rank"`
}
