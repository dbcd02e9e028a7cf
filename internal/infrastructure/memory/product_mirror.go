package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

var _ repository.ProductMirror = (*ProductMirror)(nil)

// ProductMirror espejo en memoria del último valor confirmado por el servidor.
type ProductMirror struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	syncedAt time.Time
	now      func() time.Time
}

// NewProductMirror crea un espejo vacío.
func NewProductMirror() *ProductMirror {
	return &ProductMirror{products: make(map[string]entity.Product), now: time.Now}
}

func (m *ProductMirror) Replace(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

// ReplaceAll sustituye el contenido completo por el listado del servidor.
func (m *ProductMirror) ReplaceAll(_ context.Context, products []*entity.Product) error {
	next := make(map[string]entity.Product, len(products))
	for _, p := range products {
		next[p.ID] = *p
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = next
	m.syncedAt = m.now()
	return nil
}

func (m *ProductMirror) Get(_ context.Context, id string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *ProductMirror) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *ProductMirror) Snapshot(_ context.Context) ([]*entity.Product, time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*entity.Product, 0, len(m.products))
	for _, p := range m.products {
		p := p
		out = append(out, &p)
	}
	return out, m.syncedAt, nil
}
