package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/pkg/jwt"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
)

// refreshSkew margen antes del exp del token remoto en el que ya se renueva.
const refreshSkew = 30 * time.Second

// SessionManager guarda los tokens de la API remota por sesión y es el único que los renueva.
// Las renovaciones de una misma sesión se serializan.
type SessionManager struct {
	sessions repository.SessionRepository
	accounts repository.AccountStore
	log      *logger.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionManager construye el gestor de sesiones.
func NewSessionManager(sessions repository.SessionRepository, accounts repository.AccountStore, log *logger.Logger) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		accounts: accounts,
		log:      log.Named("session"),
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Open crea y persiste una sesión nueva con los tokens del login.
func (m *SessionManager) Open(ctx context.Context, email string, tokens *repository.RemoteTokens) (*entity.Session, error) {
	now := m.now()
	s := &entity.Session{
		ID:              uuid.New().String(),
		Email:           email,
		AccessToken:     tokens.Access,
		RefreshToken:    tokens.Refresh,
		AccessExpiresAt: accessExpiry(tokens.Access),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if tokens.User != nil {
		s.UserID = tokens.User.ID
		s.Username = tokens.User.Username
	}
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("session: guardar: %w", err)
	}
	return s, nil
}

// AttachUser completa o actualiza los datos del usuario en la sesión (login sin usuario, perfil editado).
func (m *SessionManager) AttachUser(ctx context.Context, id string, u *entity.User) error {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	s.UserID = u.ID
	s.Username = u.Username
	if u.Email != "" {
		s.Email = u.Email
	}
	return m.sessions.Save(ctx, s)
}

// Get devuelve la sesión o domain.ErrSessionExpired si no existe.
func (m *SessionManager) Get(ctx context.Context, id string) (*entity.Session, error) {
	return m.load(ctx, id)
}

// Authenticator devuelve el Authenticator de la sesión. Crear uno por petición.
func (m *SessionManager) Authenticator(sessionID string) repository.Authenticator {
	return &sessionAuth{m: m, id: sessionID}
}

// Terminate borra la sesión. Idempotente.
func (m *SessionManager) Terminate(ctx context.Context, id string) error {
	if err := m.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("session: borrar: %w", err)
	}
	m.forget(id)
	return nil
}

func (m *SessionManager) load(ctx context.Context, id string) (*entity.Session, error) {
	s, err := m.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session: leer: %w", err)
	}
	if s == nil {
		// vencida por TTL o borrada: su lock ya no sirve
		m.forget(id)
		return nil, domain.ErrSessionExpired
	}
	return s, nil
}

func (m *SessionManager) lockFor(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// forget suelta el lock de una sesión que ya no existe. Quien lo tenga tomado
// lo conserva hasta liberarlo; la próxima petición encuentra la sesión vencida.
func (m *SessionManager) forget(id string) {
	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()
}

// refresh renueva el access token. stale es el token que el llamador ya usó:
// si otra petición lo renovó mientras esperábamos el lock, se devuelve el nuevo sin llamar a la API.
func (m *SessionManager) refresh(ctx context.Context, id, stale string) (string, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return "", err
	}
	if stale != "" && s.AccessToken != stale && !s.AccessExpiresWithin(m.now(), refreshSkew) {
		return s.AccessToken, nil
	}

	access, err := m.accounts.RefreshAccess(ctx, s.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrRemoteUnreachable) {
			// sin respuesta del servidor la sesión sigue siendo válida
			return "", err
		}
		m.log.Info().Str("session_id", id).Err(err).Msg("renovación rechazada; sesión terminada")
		if derr := m.sessions.Delete(ctx, id); derr != nil {
			m.log.Warn().Str("session_id", id).Err(derr).Msg("no se pudo borrar la sesión")
		}
		m.forget(id)
		if errors.Is(err, domain.ErrSessionExpired) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
	}

	s.AccessToken = access
	s.AccessExpiresAt = accessExpiry(access)
	s.UpdatedAt = m.now()
	if err := m.sessions.Save(ctx, s); err != nil {
		return "", fmt.Errorf("session: guardar: %w", err)
	}
	m.log.Debug().Str("session_id", id).Msg("access token renovado")
	return access, nil
}

// accessExpiry lee exp del token remoto; zero si no se puede leer.
func accessExpiry(token string) time.Time {
	exp, err := jwt.ExpiresAt(token)
	if err != nil {
		return time.Time{}
	}
	return exp
}

// sessionAuth Authenticator atado a una sesión.
type sessionAuth struct {
	m    *SessionManager
	id   string
	last string
}

func (a *sessionAuth) AccessToken(ctx context.Context) (string, error) {
	s, err := a.m.load(ctx, a.id)
	if err != nil {
		return "", err
	}
	a.last = s.AccessToken
	if s.AccessExpiresWithin(a.m.now(), refreshSkew) {
		return a.Refresh(ctx)
	}
	return s.AccessToken, nil
}

func (a *sessionAuth) Refresh(ctx context.Context) (string, error) {
	tok, err := a.m.refresh(ctx, a.id, a.last)
	if err != nil {
		return "", err
	}
	a.last = tok
	return tok, nil
}
