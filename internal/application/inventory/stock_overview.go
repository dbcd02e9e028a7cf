package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// maxOverviewPages tope de páginas que se recorren del listado remoto.
const maxOverviewPages = 50

// StockOverviewUseCase listado de estoque para la pantalla principal.
type StockOverviewUseCase struct {
	sessions SessionProvider
	products repository.ProductStore
	mirror   repository.ProductMirror
	log      *logger.Logger
}

// NewStockOverviewUseCase construye el caso de uso.
func NewStockOverviewUseCase(
	sessions SessionProvider,
	products repository.ProductStore,
	mirror repository.ProductMirror,
	log *logger.Logger,
) *StockOverviewUseCase {
	return &StockOverviewUseCase{
		sessions: sessions,
		products: products,
		mirror:   mirror,
		log:      log.Named("stock_overview"),
	}
}

// List trae el listado completo del servidor, reemplaza el espejo y filtra localmente.
// Si la API no responde y el espejo tiene datos, devuelve el espejo con Stale=true.
func (uc *StockOverviewUseCase) List(ctx context.Context, sessionID string, in dto.StockOverviewRequest) (*dto.StockOverviewResponse, error) {
	all, truncated, err := uc.fetchAll(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrRemoteUnreachable) {
			return nil, err
		}
		snapshot, syncedAt, mErr := uc.mirror.Snapshot(ctx)
		if mErr != nil || len(snapshot) == 0 {
			return nil, err
		}
		uc.log.Warn().Err(err).Time("synced_at", syncedAt).Msg("API no disponible, se devuelve el espejo local")
		out := buildOverview(snapshot, in)
		out.Stale = true
		if !syncedAt.IsZero() {
			out.SyncedAt = &syncedAt
		}
		return out, nil
	}

	uc.remember(ctx, all, truncated)
	out := buildOverview(all, in)
	out.Truncated = truncated
	now := time.Now()
	out.SyncedAt = &now
	return out, nil
}

// remember actualiza el espejo. Con el listado truncado no se sabe qué productos
// faltan, así que sólo se reemplazan los recibidos y el resto queda como estaba.
func (uc *StockOverviewUseCase) remember(ctx context.Context, all []*entity.Product, truncated bool) {
	if !truncated {
		if err := uc.mirror.ReplaceAll(ctx, all); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo actualizar el espejo local")
		}
		return
	}
	for _, p := range all {
		if err := uc.mirror.Replace(ctx, p); err != nil {
			uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("no se pudo actualizar el espejo local")
			return
		}
	}
}

// fetchAll recorre las páginas del listado; truncated indica que quedaron páginas sin leer.
func (uc *StockOverviewUseCase) fetchAll(ctx context.Context, sessionID string) (all []*entity.Product, truncated bool, err error) {
	auth := uc.sessions.Authenticator(sessionID)
	for page := 1; page <= maxOverviewPages; page++ {
		p, err := uc.products.ListProducts(ctx, auth, repository.ProductFilter{Page: page})
		if err != nil {
			return nil, false, err
		}
		all = append(all, p.Items...)
		if !p.HasNext {
			return all, false, nil
		}
	}
	uc.log.Warn().Int("pages", maxOverviewPages).Msg("listado truncado")
	return all, true, nil
}

func buildOverview(products []*entity.Product, in dto.StockOverviewRequest) *dto.StockOverviewResponse {
	search := strings.ToLower(strings.TrimSpace(in.Search))
	items := make([]*entity.Product, 0, len(products))
	low := 0
	for _, p := range products {
		if search != "" && !matches(p, search) {
			continue
		}
		isLow := p.IsLowStock()
		if in.LowStockOnly && !isLow {
			continue
		}
		if isLow {
			low++
		}
		items = append(items, p)
	}
	SortByName(items)
	return &dto.StockOverviewResponse{
		Items:         dto.FromProducts(items),
		Total:         len(items),
		LowStockCount: low,
	}
}

func matches(p *entity.Product, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Code), search) ||
		strings.Contains(strings.ToLower(p.CategoryName), search)
}

// SortByName ordena por nombre con colación portuguesa (acentos y mayúsculas no alteran el orden).
func SortByName(products []*entity.Product) {
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(products, func(i, j int) bool {
		return c.CompareString(products[i].Name, products[j].Name) < 0
	})
}
