package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// CategoryUseCase categorías de producto (proxy a la API).
type CategoryUseCase struct {
	sessions SessionProvider
	store    repository.CategoryStore
	mirror   repository.ProductMirror
	log      *logger.Logger
}

func NewCategoryUseCase(sessions SessionProvider, store repository.CategoryStore, mirror repository.ProductMirror, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{sessions: sessions, store: store, mirror: mirror, log: log.Named("categories")}
}

func (uc *CategoryUseCase) List(ctx context.Context, sessionID string) ([]dto.CategoryResponse, error) {
	list, err := uc.store.ListCategories(ctx, uc.sessions.Authenticator(sessionID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.FromCategory(c))
	}
	return out, nil
}

func (uc *CategoryUseCase) Create(ctx context.Context, sessionID string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := categoryFromRequest(in)
	if err != nil {
		return nil, err
	}
	created, err := uc.store.CreateCategory(ctx, uc.sessions.Authenticator(sessionID), cat)
	if err != nil {
		return nil, err
	}
	out := dto.FromCategory(created)
	return &out, nil
}

// Update reemplaza nombre y descripción (PUT).
func (uc *CategoryUseCase) Update(ctx context.Context, sessionID, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := categoryFromRequest(in)
	if err != nil {
		return nil, err
	}
	cat.ID = id
	updated, err := uc.store.UpdateCategory(ctx, uc.sessions.Authenticator(sessionID), cat)
	if err != nil {
		return nil, err
	}
	out := dto.FromCategory(updated)
	return &out, nil
}

// Delete borra la categoría. El servidor borra sus productos en cascada, así que
// también salen del espejo.
func (uc *CategoryUseCase) Delete(ctx context.Context, sessionID, id string) error {
	if err := uc.store.DeleteCategory(ctx, uc.sessions.Authenticator(sessionID), id); err != nil {
		return err
	}
	snapshot, _, err := uc.mirror.Snapshot(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Str("category_id", id).Msg("no se pudo leer el espejo")
		return nil
	}
	for _, p := range snapshot {
		if p.CategoryID != id {
			continue
		}
		if err := uc.mirror.Delete(ctx, p.ID); err != nil {
			uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("no se pudo borrar del espejo")
		}
	}
	return nil
}

func categoryFromRequest(in dto.CategoryRequest) (*entity.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	return &entity.Category{Name: name, Description: strings.TrimSpace(in.Description)}, nil
}
