// Package memory implementaciones en proceso de las sesiones y del espejo de productos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo sesiones en un map; se pierden al reiniciar el proceso.
type SessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionRepo crea el repositorio. Una sesión sin actividad por más de ttl se considera vencida.
func NewSessionRepo(ttl time.Duration) *SessionRepo {
	return &SessionRepo{sessions: make(map[string]entity.Session), ttl: ttl, now: time.Now}
}

func (r *SessionRepo) Save(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *SessionRepo) Get(_ context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if r.ttl > 0 && r.now().Sub(s.UpdatedAt) > r.ttl {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, nil
	}
	return &s, nil
}

func (r *SessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
