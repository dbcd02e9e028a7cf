package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
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

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeSessions struct{}

func (fakeSessions) Authenticator(string) repository.Authenticator { return nil }

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) ListProducts(ctx context.Context, a repository.Authenticator, f repository.ProductFilter) (*repository.ProductPage, error) {
	args := m.Called(ctx, a, f)
	if p := args.Get(0); p != nil {
		return p.(*repository.ProductPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductStore) GetProduct(ctx context.Context, a repository.Authenticator, id string) (*entity.Product, error) {
	args := m.Called(ctx, a, id)
	if p := args.Get(0); p != nil {
		return p.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductStore) CreateProduct(ctx context.Context, a repository.Authenticator, p *entity.Product) (*entity.Product, error) {
	args := m.Called(ctx, a, p)
	if r := args.Get(0); r != nil {
		return r.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductStore) UpdateProduct(ctx context.Context, a repository.Authenticator, p *entity.Product) (*entity.Product, error) {
	args := m.Called(ctx, a, p)
	if r := args.Get(0); r != nil {
		return r.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductStore) DeleteProduct(ctx context.Context, a repository.Authenticator, id string) error {
	return m.Called(ctx, a, id).Error(0)
}

func (m *MockProductStore) ListLowStock(ctx context.Context, a repository.Authenticator) ([]*entity.Product, error) {
	args := m.Called(ctx, a)
	if r := args.Get(0); r != nil {
		return r.([]*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) ListCategories(ctx context.Context, a repository.Authenticator) ([]*entity.Category, error) {
	args := m.Called(ctx, a)
	if r := args.Get(0); r != nil {
		return r.([]*entity.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryStore) CreateCategory(ctx context.Context, a repository.Authenticator, c *entity.Category) (*entity.Category, error) {
	args := m.Called(ctx, a, c)
	if r := args.Get(0); r != nil {
		return r.(*entity.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryStore) UpdateCategory(ctx context.Context, a repository.Authenticator, c *entity.Category) (*entity.Category, error) {
	args := m.Called(ctx, a, c)
	if r := args.Get(0); r != nil {
		return r.(*entity.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryStore) DeleteCategory(ctx context.Context, a repository.Authenticator, id string) error {
	return m.Called(ctx, a, id).Error(0)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Code: " FER-001 ", Name: "Martelo", Quantity: d("10"), MinimumStock: d("2"),
		CostPrice: d("12.50"), SalePrice: d("19.90"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_DefaultsYEspejo(t *testing.T) {
	store := new(MockProductStore)
	mirror := memory.NewProductMirror()
	uc := NewProductUseCase(fakeSessions{}, store, mirror, logger.Nop())

	store.On("CreateProduct", mock.Anything, mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.Code == "FER-001" && p.Unit == entity.UnitPiece && p.Active
	})).Return(&entity.Product{ID: "31", Code: "FER-001", Name: "Martelo", CurrentStock: d("10"), MinimumStock: d("2"), Unit: "UN", Active: true}, nil).Once()

	res, err := uc.Create(context.Background(), "s1", validRequest())
	require.NoError(t, err)
	assert.Equal(t, "31", res.ID)

	cached, _ := mirror.Get(context.Background(), "31")
	require.NotNil(t, cached)
	store.AssertExpectations(t)
}

func TestProductCreate_ValidacionLocal(t *testing.T) {
	store := new(MockProductStore)
	uc := NewProductUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())

	cases := map[string]func(r *dto.CreateProductRequest){
		"sin codigo":        func(r *dto.CreateProductRequest) { r.Code = "  " },
		"sin nombre":        func(r *dto.CreateProductRequest) { r.Name = "" },
		"cantidad negativa": func(r *dto.CreateProductRequest) { r.Quantity = d("-1") },
		"minimo negativo":   func(r *dto.CreateProductRequest) { r.MinimumStock = d("-0.5") },
		"unidad invalida":   func(r *dto.CreateProductRequest) { r.Unit = "TON" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := validRequest()
			mutate(&r)
			_, err := uc.Create(context.Background(), "s1", r)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	store.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUpdate_EnviaIDYActivo(t *testing.T) {
	store := new(MockProductStore)
	uc := NewProductUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())
	inactive := false
	r := validRequest()
	r.Active = &inactive
	r.Unit = "kg"

	store.On("UpdateProduct", mock.Anything, mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.ID == "7" && !p.Active && p.Unit == entity.UnitKilogram
	})).Return(&entity.Product{ID: "7", Unit: "KG"}, nil).Once()

	res, err := uc.Update(context.Background(), "s1", "7", r)
	require.NoError(t, err)
	assert.Equal(t, "KG", res.Unit)
}

func TestProductDelete_BorraDelEspejo(t *testing.T) {
	store := new(MockProductStore)
	mirror := memory.NewProductMirror()
	require.NoError(t, mirror.Replace(context.Background(), &entity.Product{ID: "7"}))
	uc := NewProductUseCase(fakeSessions{}, store, mirror, logger.Nop())
	store.On("DeleteProduct", mock.Anything, mock.Anything, "7").Return(nil).Once()

	require.NoError(t, uc.Delete(context.Background(), "s1", "7"))
	cached, _ := mirror.Get(context.Background(), "7")
	assert.Nil(t, cached)
}

func TestProductDelete_ErrorRemotoMantieneEspejo(t *testing.T) {
	store := new(MockProductStore)
	mirror := memory.NewProductMirror()
	require.NoError(t, mirror.Replace(context.Background(), &entity.Product{ID: "7"}))
	uc := NewProductUseCase(fakeSessions{}, store, mirror, logger.Nop())
	store.On("DeleteProduct", mock.Anything, mock.Anything, "7").Return(domain.ErrRemoteUnreachable).Once()

	assert.ErrorIs(t, uc.Delete(context.Background(), "s1", "7"), domain.ErrRemoteUnreachable)
	cached, _ := mirror.Get(context.Background(), "7")
	assert.NotNil(t, cached)
}

func TestProductList_FiltroActivo(t *testing.T) {
	store := new(MockProductStore)
	uc := NewProductUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())
	store.On("ListProducts", mock.Anything, mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.Page == 1 && f.Active != nil && !*f.Active && f.Search == "broca"
	})).Return(&repository.ProductPage{Count: 0}, nil).Once()

	res, err := uc.List(context.Background(), "s1", dto.ProductListRequest{Search: " broca ", Active: "false"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	_, err = uc.List(context.Background(), "s1", dto.ProductListRequest{Active: "talvez"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductLowStock_ReglaEstricta(t *testing.T) {
	store := new(MockProductStore)
	uc := NewProductUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())
	store.On("ListLowStock", mock.Anything, mock.Anything).Return([]*entity.Product{
		{ID: "1", CurrentStock: d("5"), MinimumStock: d("5")},
		{ID: "2", CurrentStock: d("4"), MinimumStock: d("5")},
	}, nil)

	list, err := uc.LowStock(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2", list[0].ID)
}

func TestProductList_FiltroBajoEstricto(t *testing.T) {
	store := new(MockProductStore)
	uc := NewProductUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())
	store.On("ListProducts", mock.Anything, mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.LowStockOnly
	})).Return(&repository.ProductPage{Count: 2, Items: []*entity.Product{
		{ID: "1", CurrentStock: d("5"), MinimumStock: d("5")},
		{ID: "2", CurrentStock: d("4"), MinimumStock: d("5")},
	}}, nil).Once()

	res, err := uc.List(context.Background(), "s1", dto.ProductListRequest{LowStock: true})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "2", res.Items[0].ID)
}

func TestProductList_SinFiltroBajoDevuelveTodo(t *testing.T) {
	store := new(MockProductStore)
	uc := NewProductUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())
	store.On("ListProducts", mock.Anything, mock.Anything, mock.Anything).Return(&repository.ProductPage{Count: 1, Items: []*entity.Product{
		{ID: "1", CurrentStock: d("5"), MinimumStock: d("5")},
	}}, nil).Once()

	res, err := uc.List(context.Background(), "s1", dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestProductCreate_ExponenteFueraDeRango(t *testing.T) {
	store := new(MockProductStore)
	uc := NewProductUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())

	huge := func(raw string) decimal.Decimal {
		var v decimal.Decimal
		require.NoError(t, v.UnmarshalJSON([]byte(raw)))
		return v
	}
	cases := map[string]func(r *dto.CreateProductRequest){
		"cantidad 1e-50000000": func(r *dto.CreateProductRequest) { r.Quantity = huge(`"1e-50000000"`) },
		"minimo 1e50000000":    func(r *dto.CreateProductRequest) { r.MinimumStock = huge(`"1e50000000"`) },
		"costo tres decimales": func(r *dto.CreateProductRequest) { r.CostPrice = d("1.005") },
		"venta fuera de rango": func(r *dto.CreateProductRequest) { r.SalePrice = d("100000000") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := validRequest()
			mutate(&r)
			done := make(chan error, 1)
			go func() {
				_, err := uc.Create(context.Background(), "s1", r)
				done <- err
			}()
			select {
			case err := <-done:
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			case <-time.After(time.Second):
				t.Fatal("la validación no terminó en 1s")
			}
		})
	}
	store.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryCreate(t *testing.T) {
	store := new(MockCategoryStore)
	uc := NewCategoryUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())
	store.On("CreateCategory", mock.Anything, mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.Name == "Ferramentas"
	})).Return(&entity.Category{ID: "3", Name: "Ferramentas"}, nil).Once()

	res, err := uc.Create(context.Background(), "s1", dto.CategoryRequest{Name: " Ferramentas "})
	require.NoError(t, err)
	assert.Equal(t, "3", res.ID)

	_, err = uc.Create(context.Background(), "s1", dto.CategoryRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryUpdate_EnviaID(t *testing.T) {
	store := new(MockCategoryStore)
	uc := NewCategoryUseCase(fakeSessions{}, store, memory.NewProductMirror(), logger.Nop())
	store.On("UpdateCategory", mock.Anything, mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.ID == "3" && c.Name == "Elétrica" && c.Description == "fios"
	})).Return(&entity.Category{ID: "3", Name: "Elétrica", Description: "fios"}, nil).Once()

	res, err := uc.Update(context.Background(), "s1", "3", dto.CategoryRequest{Name: " Elétrica ", Description: "fios "})
	require.NoError(t, err)
	assert.Equal(t, "Elétrica", res.Name)

	_, err = uc.Update(context.Background(), "s1", "3", dto.CategoryRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	store.AssertExpectations(t)
}

func TestCategoryDelete_SacaDelEspejoSusProductos(t *testing.T) {
	store := new(MockCategoryStore)
	mirror := memory.NewProductMirror()
	ctx := context.Background()
	require.NoError(t, mirror.ReplaceAll(ctx, []*entity.Product{
		{ID: "1", CategoryID: "3"},
		{ID: "2", CategoryID: "4"},
	}))
	uc := NewCategoryUseCase(fakeSessions{}, store, mirror, logger.Nop())
	store.On("DeleteCategory", mock.Anything, mock.Anything, "3").Return(nil).Once()

	require.NoError(t, uc.Delete(ctx, "s1", "3"))
	gone, _ := mirror.Get(ctx, "1")
	assert.Nil(t, gone, "el servidor borró el producto en cascada")
	kept, _ := mirror.Get(ctx, "2")
	assert.NotNil(t, kept)
}

func TestCategoryDelete_ErrorRemotoNoTocaEspejo(t *testing.T) {
	store := new(MockCategoryStore)
	mirror := memory.NewProductMirror()
	ctx := context.Background()
	require.NoError(t, mirror.Replace(ctx, &entity.Product{ID: "1", CategoryID: "3"}))
	uc := NewCategoryUseCase(fakeSessions{}, store, mirror, logger.Nop())
	store.On("DeleteCategory", mock.Anything, mock.Anything, "3").Return(domain.ErrNotFound).Once()

	assert.ErrorIs(t, uc.Delete(ctx, "s1", "3"), domain.ErrNotFound)
	kept, _ := mirror.Get(ctx, "1")
	assert.NotNil(t, kept)
}
