package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/ledger"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// SessionProvider entrega el Authenticator de la sesión del dashboard.
type SessionProvider interface {
	Authenticator(sessionID string) repository.Authenticator
}

// ProductUseCase CRUD de productos contra la API remota. El stock inicial se envía al crear;
// después sólo cambia vía movimientos.
type ProductUseCase struct {
	sessions SessionProvider
	store    repository.ProductStore
	mirror   repository.ProductMirror
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(sessions SessionProvider, store repository.ProductStore, mirror repository.ProductMirror, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{sessions: sessions, store: store, mirror: mirror, log: log.Named("products")}
}

// Create valida localmente (mismas reglas que el serializer de la API) y crea el producto.
func (uc *ProductUseCase) Create(ctx context.Context, sessionID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := productFromRequest(in)
	if err != nil {
		return nil, err
	}
	created, err := uc.store.CreateProduct(ctx, uc.sessions.Authenticator(sessionID), product)
	if err != nil {
		return nil, err
	}
	uc.remember(ctx, created)
	out := dto.FromProduct(created)
	return &out, nil
}

// GetByID lee el producto del servidor.
func (uc *ProductUseCase) GetByID(ctx context.Context, sessionID, id string) (*dto.ProductResponse, error) {
	product, err := uc.store.GetProduct(ctx, uc.sessions.Authenticator(sessionID), id)
	if err != nil {
		return nil, err
	}
	uc.remember(ctx, product)
	out := dto.FromProduct(product)
	return &out, nil
}

// Update reemplaza todos los campos editables (PUT).
func (uc *ProductUseCase) Update(ctx context.Context, sessionID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := productFromRequest(in)
	if err != nil {
		return nil, err
	}
	product.ID = id
	updated, err := uc.store.UpdateProduct(ctx, uc.sessions.Authenticator(sessionID), product)
	if err != nil {
		return nil, err
	}
	uc.remember(ctx, updated)
	out := dto.FromProduct(updated)
	return &out, nil
}

// List una página del listado remoto con sus filtros.
func (uc *ProductUseCase) List(ctx context.Context, sessionID string, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	f := repository.ProductFilter{
		Page:         in.Page,
		Search:       strings.TrimSpace(in.Search),
		LowStockOnly: in.LowStock,
		CategoryID:   strings.TrimSpace(in.CategoryID),
	}
	if s := strings.TrimSpace(in.Active); s != "" {
		active, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: active debe ser true o false", domain.ErrInvalidInput)
		}
		f.Active = &active
	}
	page, err := uc.store.ListProducts(ctx, uc.sessions.Authenticator(sessionID), f)
	if err != nil {
		return nil, err
	}
	items := page.Items
	if in.LowStock {
		// el filtro estoque_baixo del servidor usa <=; en el dashboard bajo es estricto
		items = strictlyLow(items)
	}
	return &dto.ProductListResponse{
		Items: dto.FromProducts(items),
		Page: dto.PageResponse{
			Page:    in.Page,
			Total:   page.Count,
			HasNext: page.HasNext,
			HasPrev: page.HasPrev,
		},
	}, nil
}

// Delete elimina en el servidor y luego del espejo.
func (uc *ProductUseCase) Delete(ctx context.Context, sessionID, id string) error {
	if err := uc.store.DeleteProduct(ctx, uc.sessions.Authenticator(sessionID), id); err != nil {
		return err
	}
	if err := uc.mirror.Delete(ctx, id); err != nil {
		uc.log.Warn().Err(err).Str("product_id", id).Msg("no se pudo borrar del espejo")
	}
	return nil
}

// LowStock productos estrictamente bajo el mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context, sessionID string) ([]dto.ProductResponse, error) {
	list, err := uc.store.ListLowStock(ctx, uc.sessions.Authenticator(sessionID))
	if err != nil {
		return nil, err
	}
	return dto.FromProducts(strictlyLow(list)), nil
}

func strictlyLow(list []*entity.Product) []*entity.Product {
	low := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		if p.IsLowStock() {
			low = append(low, p)
		}
	}
	return low
}

func (uc *ProductUseCase) remember(ctx context.Context, p *entity.Product) {
	if p == nil {
		return
	}
	if err := uc.mirror.Replace(ctx, p); err != nil {
		uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("no se pudo actualizar el espejo")
	}
}

func productFromRequest(in dto.CreateProductRequest) (*entity.Product, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" {
		return nil, fmt.Errorf("%w: el código es obligatorio", domain.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	quantity, err := boundedAmount("la cantidad", in.Quantity)
	if err != nil {
		return nil, err
	}
	minimum, err := boundedAmount("el stock mínimo", in.MinimumStock)
	if err != nil {
		return nil, err
	}
	cost, err := boundedAmount("el precio de costo", in.CostPrice)
	if err != nil {
		return nil, err
	}
	sale, err := boundedAmount("el precio de venta", in.SalePrice)
	if err != nil {
		return nil, err
	}
	unit := strings.ToUpper(strings.TrimSpace(in.Unit))
	if unit == "" {
		unit = entity.UnitPiece
	}
	if !entity.ValidUnit(unit) {
		return nil, fmt.Errorf("%w: unidad desconocida %q", domain.ErrInvalidInput, in.Unit)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &entity.Product{
		Code:         code,
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		CategoryID:   strings.TrimSpace(in.CategoryID),
		CurrentStock: quantity,
		MinimumStock: minimum,
		Unit:         unit,
		CostPrice:    cost,
		SalePrice:    sale,
		Active:       active,
	}, nil
}

// boundedAmount valida rango y escala (10,2) antes de comparar con cero; comparar
// primero reescalaría un exponente arbitrario del JSON.
func boundedAmount(field string, v decimal.Decimal) (decimal.Decimal, error) {
	q, err := ledger.CheckBounds(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, field, err)
	}
	if q.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, field)
	}
	return q, nil
}
