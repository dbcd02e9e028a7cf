package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// MovementFilter filtros del historial remoto de movimientos.
type MovementFilter struct {
	Kind      entity.MovementKind
	ProductID string
	From      *time.Time
	To        *time.Time
	Page      int
}

// MovementPage una página del historial.
type MovementPage struct {
	Count   int
	HasNext bool
	HasPrev bool
	Items   []*entity.Movement
}

// MovementStore puerto para enviar movimientos y leer el historial.
// SubmitMovement no reintenta; el llamador decide qué hacer con el error.
type MovementStore interface {
	SubmitMovement(ctx context.Context, auth Authenticator, m entity.Movement) (*entity.Movement, error)
	ListMovements(ctx context.Context, auth Authenticator, f MovementFilter) (*MovementPage, error)
}
