package repository

import (
	"context"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// CategoryStore puerto hacia /categorias/ de la API remota.
type CategoryStore interface {
	ListCategories(ctx context.Context, auth Authenticator) ([]*entity.Category, error)
	CreateCategory(ctx context.Context, auth Authenticator, c *entity.Category) (*entity.Category, error)
	UpdateCategory(ctx context.Context, auth Authenticator, c *entity.Category) (*entity.Category, error)
	DeleteCategory(ctx context.Context, auth Authenticator, id string) error
}

// DashboardStore puerto hacia /dashboard/ de la API remota.
type DashboardStore interface {
	Dashboard(ctx context.Context, auth Authenticator) (*entity.DashboardStats, error)
}
