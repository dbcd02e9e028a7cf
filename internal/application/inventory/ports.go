package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

// SessionProvider entrega el Authenticator de una sesión del dashboard (auth.SessionManager).
type SessionProvider interface {
	Authenticator(sessionID string) repository.Authenticator
	Get(ctx context.Context, sessionID string) (*entity.Session, error)
}
