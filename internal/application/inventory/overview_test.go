package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

func named(id, name, stock, minimum string) *entity.Product {
	p := prod(id, stock, minimum)
	p.Name = name
	return p
}

func pageFilter(n int) interface{} {
	return mock.MatchedBy(func(f repository.ProductFilter) bool { return f.Page == n })
}

// ──────────────────────────────────────────────────────────────────────────────
// StockOverview
// ──────────────────────────────────────────────────────────────────────────────

func TestStockOverview_RecorrePaginasYOrdenaPorNombre(t *testing.T) {
	products := new(MockProductStore)
	mirror := memory.NewProductMirror()
	uc := NewStockOverviewUseCase(fakeSessions{}, products, mirror, logger.Nop())

	products.On("ListProducts", mock.Anything, mock.Anything, pageFilter(1)).Return(&repository.ProductPage{
		Count: 4, HasNext: true,
		Items: []*entity.Product{named("1", "Zinco", "10", "1"), named("2", "Ábaco", "0", "1")},
	}, nil).Once()
	products.On("ListProducts", mock.Anything, mock.Anything, pageFilter(2)).Return(&repository.ProductPage{
		Count: 4, HasPrev: true,
		Items: []*entity.Product{named("3", "broca", "5", "5"), named("4", "abacate", "1", "2")},
	}, nil).Once()

	res, err := uc.List(context.Background(), "s1", dto.StockOverviewRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 4)

	names := []string{res.Items[0].Name, res.Items[1].Name, res.Items[2].Name, res.Items[3].Name}
	assert.Equal(t, []string{"abacate", "Ábaco", "broca", "Zinco"}, names)
	assert.Equal(t, 2, res.LowStockCount)
	assert.False(t, res.Stale)

	// 5 == 5 no es bajo mínimo
	assert.False(t, res.Items[2].BelowMinimum)

	assert.False(t, res.Truncated)
	snap, synced, _ := mirror.Snapshot(context.Background())
	assert.Len(t, snap, 4)
	assert.False(t, synced.IsZero())
}

func TestStockOverview_TopeDePaginasNoBorraElEspejo(t *testing.T) {
	products := new(MockProductStore)
	mirror := memory.NewProductMirror()
	ctx := context.Background()
	require.NoError(t, mirror.ReplaceAll(ctx, []*entity.Product{
		named("1", "Alicate", "3", "1"),
		named("999", "Trena", "7", "2"),
	}))
	uc := NewStockOverviewUseCase(fakeSessions{}, products, mirror, logger.Nop())

	// siempre hay otra página: se corta en maxOverviewPages
	products.On("ListProducts", mock.Anything, mock.Anything, mock.Anything).Return(&repository.ProductPage{
		HasNext: true,
		Items:   []*entity.Product{named("1", "Alicate", "9", "1")},
	}, nil)

	res, err := uc.List(ctx, "s1", dto.StockOverviewRequest{})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	products.AssertNumberOfCalls(t, "ListProducts", maxOverviewPages)

	// el 999 no llegó en las páginas leídas pero sigue en el espejo
	kept, _ := mirror.Get(ctx, "999")
	require.NotNil(t, kept)
	assert.True(t, d("7").Equal(kept.CurrentStock))

	updated, _ := mirror.Get(ctx, "1")
	require.NotNil(t, updated)
	assert.True(t, d("9").Equal(updated.CurrentStock))
}

func TestStockOverview_FiltraBajoMinimoYBusqueda(t *testing.T) {
	products := new(MockProductStore)
	uc := NewStockOverviewUseCase(fakeSessions{}, products, memory.NewProductMirror(), logger.Nop())
	products.On("ListProducts", mock.Anything, mock.Anything, pageFilter(1)).Return(&repository.ProductPage{
		Items: []*entity.Product{
			named("1", "Martelo", "1", "3"),
			named("2", "Martelete", "9", "3"),
			named("3", "Serra", "0", "1"),
		},
	}, nil)

	res, err := uc.List(context.Background(), "s1", dto.StockOverviewRequest{LowStockOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	res, err = uc.List(context.Background(), "s1", dto.StockOverviewRequest{Search: "MARTEL", LowStockOnly: true})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Martelo", res.Items[0].Name)
}

func TestStockOverview_APICaidaDevuelveEspejo(t *testing.T) {
	products := new(MockProductStore)
	mirror := memory.NewProductMirror()
	require.NoError(t, mirror.ReplaceAll(context.Background(), []*entity.Product{named("1", "Chave", "2", "1")}))
	uc := NewStockOverviewUseCase(fakeSessions{}, products, mirror, logger.Nop())
	products.On("ListProducts", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrRemoteUnreachable)

	res, err := uc.List(context.Background(), "s1", dto.StockOverviewRequest{})
	require.NoError(t, err)
	assert.True(t, res.Stale)
	require.NotNil(t, res.SyncedAt)
	assert.WithinDuration(t, time.Now(), *res.SyncedAt, time.Minute)
	assert.Equal(t, 1, res.Total)
}

func TestStockOverview_APICaidaSinEspejo(t *testing.T) {
	products := new(MockProductStore)
	uc := NewStockOverviewUseCase(fakeSessions{}, products, memory.NewProductMirror(), logger.Nop())
	products.On("ListProducts", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrRemoteUnreachable)

	_, err := uc.List(context.Background(), "s1", dto.StockOverviewRequest{})
	assert.ErrorIs(t, err, domain.ErrRemoteUnreachable)
}

func TestStockOverview_SesionExpiradaNoUsaEspejo(t *testing.T) {
	products := new(MockProductStore)
	mirror := memory.NewProductMirror()
	require.NoError(t, mirror.ReplaceAll(context.Background(), []*entity.Product{named("1", "Chave", "2", "1")}))
	uc := NewStockOverviewUseCase(fakeSessions{}, products, mirror, logger.Nop())
	products.On("ListProducts", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrSessionExpired)

	_, err := uc.List(context.Background(), "s1", dto.StockOverviewRequest{})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial y reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_TraduceFiltros(t *testing.T) {
	movements := new(MockMovementStore)
	uc := NewMovementHistoryUseCase(fakeSessions{}, movements)
	movements.On("ListMovements", mock.Anything, mock.Anything, mock.MatchedBy(func(f repository.MovementFilter) bool {
		return f.Kind == entity.MovementExit && f.ProductID == "4" && f.Page == 1 &&
			f.From != nil && f.From.Format("2006-01-02") == "2026-10-01" && f.To == nil
	})).Return(&repository.MovementPage{
		Count: 1,
		Items: []*entity.Movement{{ID: "1", ProductName: "Broca", Kind: entity.MovementExit, Quantity: d("2")}},
	}, nil).Once()

	res, err := uc.ListMovements(context.Background(), "s1", dto.MovementListRequest{Kind: "exit", ProductID: "4", From: "2026-10-01"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "SAIDA", res.Items[0].Kind)
	assert.Equal(t, 1, res.Page.Page)
	movements.AssertExpectations(t)
}

func TestListMovements_FechaInvalida(t *testing.T) {
	uc := NewMovementHistoryUseCase(fakeSessions{}, new(MockMovementStore))
	_, err := uc.ListMovements(context.Background(), "s1", dto.MovementListRequest{To: "ayer"})
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestReplenishment_OrdenaPorCobertura(t *testing.T) {
	products := new(MockProductStore)
	uc := NewReplenishmentUseCase(fakeSessions{}, products)
	a := named("1", "Broca", "4", "8")
	a.CostPrice = d("2.50")
	products.On("ListLowStock", mock.Anything, mock.Anything).Return([]*entity.Product{
		a,
		named("2", "Serra", "0", "2"),
		named("3", "Lixa", "5", "5"), // el servidor usa <=; aquí no cuenta
	}, nil)

	list, err := uc.GenerateReplenishmentList(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[0].ProductID)
	assert.Equal(t, 1, list[0].PriorityRank)
	assert.True(t, d("3").Equal(list[0].SuggestedQty))
	assert.Equal(t, "1", list[1].ProductID)
	assert.True(t, d("8").Equal(list[1].SuggestedQty))
	assert.True(t, d("20").Equal(list[1].EstimatedCost))
}
