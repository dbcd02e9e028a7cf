package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// ProductMirror último valor conocido del servidor por producto.
// Sólo se escribe con respuestas del servidor, nunca con valores calculados localmente.
type ProductMirror interface {
	Replace(ctx context.Context, p *entity.Product) error
	ReplaceAll(ctx context.Context, products []*entity.Product) error
	Get(ctx context.Context, id string) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	// Snapshot devuelve todos los productos y la hora del último ReplaceAll (zero si nunca hubo).
	Snapshot(ctx context.Context) ([]*entity.Product, time.Time, error)
}

// AlertPublisher publica alertas de estoque bajo (Kafka, correo, ...).
type AlertPublisher interface {
	PublishLowStock(ctx context.Context, alert entity.LowStockAlert) error
}
