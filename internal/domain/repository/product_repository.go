package repository

import (
	"context"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// ProductFilter filtros de GET /produtos/. Page empieza en 1.
type ProductFilter struct {
	Page         int
	Search       string
	LowStockOnly bool
	Active       *bool
	CategoryID   string
}

// ProductPage una página del listado remoto.
type ProductPage struct {
	Count   int
	HasNext bool
	HasPrev bool
	Items   []*entity.Product
}

// ProductStore puerto hacia la API remota de productos (fuente de verdad).
// GetProduct devuelve domain.ErrNotFound si el servidor responde 404.
type ProductStore interface {
	ListProducts(ctx context.Context, auth Authenticator, f ProductFilter) (*ProductPage, error)
	GetProduct(ctx context.Context, auth Authenticator, id string) (*entity.Product, error)
	CreateProduct(ctx context.Context, auth Authenticator, p *entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, auth Authenticator, p *entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, auth Authenticator, id string) error
	ListLowStock(ctx context.Context, auth Authenticator) ([]*entity.Product, error)
}
