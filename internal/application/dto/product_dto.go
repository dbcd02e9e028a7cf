package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products y PUT /api/products/:id.
type CreateProductRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"category_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"` // UN, KG, L, M, CX (default UN)
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	Active       *bool           `json:"active"` // nil = true
}

// UpdateProductRequest mismo contenido que la creación (PUT completo).
type UpdateProductRequest = CreateProductRequest

// ProductResponse producto con los valores del servidor.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Active       bool            `json:"active"`
	BelowMinimum bool            `json:"below_minimum"`
	Deficit      decimal.Decimal `json:"deficit"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// ProductListRequest query de GET /api/products.
type ProductListRequest struct {
	PageRequest
	Search     string `query:"search"`
	Active     string `query:"active"` // "", "true", "false"
	CategoryID string `query:"category_id"`
	LowStock   bool   `query:"low_stock"`
}

// ProductListResponse página de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CategoryRequest body para POST /api/categories.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse categoría.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
