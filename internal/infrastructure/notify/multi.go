package notify

import (
	"context"
	"errors"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

// MultiPublisher reparte la alerta entre varios publishers; un fallo no detiene a los demás.
type MultiPublisher struct {
	publishers []repository.AlertPublisher
}

func NewMultiPublisher(publishers ...repository.AlertPublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) PublishLowStock(ctx context.Context, alert entity.LowStockAlert) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.PublishLowStock(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len cantidad de publishers configurados.
func (m *MultiPublisher) Len() int { return len(m.publishers) }

// NopPublisher descarta las alertas (sin Kafka ni correo configurados).
type NopPublisher struct{}

func (NopPublisher) PublishLowStock(context.Context, entity.LowStockAlert) error { return nil }
