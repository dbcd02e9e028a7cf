package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo sesiones del dashboard en la tabla dashboard_sessions.
type SessionRepo struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewSessionRepository construye el adaptador. Sesiones sin actividad por más de ttl no se devuelven.
func NewSessionRepository(pool *pgxpool.Pool, ttl time.Duration) *SessionRepo {
	return &SessionRepo{pool: pool, ttl: ttl}
}

// Save inserta o reemplaza la sesión (upsert por id).
func (r *SessionRepo) Save(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO dashboard_sessions
			(id, user_id, email, username, access_token, refresh_token, access_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			email = EXCLUDED.email,
			username = EXCLUDED.username,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			access_expires_at = EXCLUDED.access_expires_at,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.UserID, s.Email, s.Username, s.AccessToken, s.RefreshToken,
		nullTime(s.AccessExpiresAt), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrap("save session", err)
	}
	return nil
}

// Get obtiene la sesión si existe y sigue vigente.
func (r *SessionRepo) Get(ctx context.Context, id string) (*entity.Session, error) {
	query := `
		SELECT id, user_id, email, username, access_token, refresh_token, access_expires_at, created_at, updated_at
		FROM dashboard_sessions WHERE id = $1`
	var (
		s   entity.Session
		exp *time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Email, &s.Username, &s.AccessToken, &s.RefreshToken,
		&exp, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get session", err)
	}
	if exp != nil {
		s.AccessExpiresAt = *exp
	}
	if r.ttl > 0 && time.Since(s.UpdatedAt) > r.ttl {
		_ = r.Delete(ctx, id)
		return nil, nil
	}
	return &s, nil
}

// Delete elimina la sesión. No falla si no existe.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id); err != nil {
		return wrap("delete session", err)
	}
	return nil
}

// PurgeExpired borra las sesiones vencidas; devuelve cuántas.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	if r.ttl <= 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM dashboard_sessions WHERE updated_at < $1`, time.Now().Add(-r.ttl))
	if err != nil {
		return 0, wrap("purge sessions", err)
	}
	return tag.RowsAffected(), nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
