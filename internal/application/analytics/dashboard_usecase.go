// Package analytics contiene el resumen del dashboard de estoque.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

// SessionProvider entrega el Authenticator de la sesión del dashboard.
type SessionProvider interface {
	Authenticator(sessionID string) repository.Authenticator
}

// DashboardUseCase arma el resumen de la pantalla principal.
//
// Fuente de datos: /dashboard/ y el listado de estoque bajo de la API remota.
// No calcula totales localmente.
type DashboardUseCase struct {
	sessions  SessionProvider
	dashboard repository.DashboardStore
	products  repository.ProductStore
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(sessions SessionProvider, dashboard repository.DashboardStore, products repository.ProductStore) *DashboardUseCase {
	return &DashboardUseCase{sessions: sessions, dashboard: dashboard, products: products, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO de la sesión.
//
// Dos llamadas en paralelo:
//  1. Dashboard()    → totales y más movidos
//  2. ListLowStock() → productos bajo mínimo
func (uc *DashboardUseCase) GetSummary(ctx context.Context, sessionID string) (*dto.DashboardSummaryDTO, error) {
	auth := uc.sessions.Authenticator(sessionID)

	// ── Goroutines para paralelizar las 2 llamadas remotas ─────────────────────
	type statsResult struct {
		stats *entity.DashboardStats
		err   error
	}
	type lowStockResult struct {
		products []*entity.Product
		err      error
	}

	statsCh := make(chan statsResult, 1)
	lowCh := make(chan lowStockResult, 1)

	go func() {
		s, err := uc.dashboard.Dashboard(ctx, auth)
		statsCh <- statsResult{s, err}
	}()
	go func() {
		p, err := uc.products.ListLowStock(ctx, auth)
		lowCh <- lowStockResult{p, err}
	}()

	stats := <-statsCh
	low := <-lowCh

	if stats.err != nil {
		return nil, fmt.Errorf("dashboard: totales: %w", stats.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: estoque bajo: %w", low.err)
	}

	// ── Regla estricta (la API usa <=) ─────────────────────────────────────────
	lowStock := make([]*entity.Product, 0, len(low.products))
	for _, p := range low.products {
		if p.IsLowStock() {
			lowStock = append(lowStock, p)
		}
	}

	moved := make([]dto.MovedProductDTO, 0, len(stats.stats.MostMoved))
	for _, m := range stats.stats.MostMoved {
		moved = append(moved, dto.MovedProductDTO{Name: m.Name, Total: m.Total})
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts:  stats.stats.TotalProducts,
		ActiveProducts: stats.stats.ActiveProducts,
		Categories:     stats.stats.Categories,
		MovementsToday: stats.stats.MovementsToday,
		LowStockCount:  len(lowStock),
		MostMoved:      moved,
		LowStock:       dto.FromProducts(lowStock),
		GeneratedAt:    uc.now(),
	}, nil
}
