package inventory

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

type fakeSessions struct{}

func (fakeSessions) Authenticator(string) repository.Authenticator { return staticAuth{} }

func (fakeSessions) Get(_ context.Context, id string) (*entity.Session, error) {
	return &entity.Session{ID: id, Email: "almox@toolgear.local"}, nil
}

type staticAuth struct{}

func (staticAuth) AccessToken(context.Context) (string, error) { return "access", nil }
func (staticAuth) Refresh(context.Context) (string, error)     { return "access", nil }

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

type MockMovementStore struct {
	mock.Mock
}

func (m *MockMovementStore) SubmitMovement(ctx context.Context, a repository.Authenticator, mv entity.Movement) (*entity.Movement, error) {
	args := m.Called(ctx, a, mv)
	if r := args.Get(0); r != nil {
		return r.(*entity.Movement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMovementStore) ListMovements(ctx context.Context, a repository.Authenticator, f repository.MovementFilter) (*repository.MovementPage, error) {
	args := m.Called(ctx, a, f)
	if r := args.Get(0); r != nil {
		return r.(*repository.MovementPage), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) PublishLowStock(ctx context.Context, alert entity.LowStockAlert) error {
	return m.Called(ctx, alert).Error(0)
}
