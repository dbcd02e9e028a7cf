// Package redis sesiones del dashboard en Redis (SESSION_BACKEND=redis).
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// NewClient crea el cliente desde REDIS_URL y verifica la conexión.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL inválida: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// SessionRepo guarda cada sesión como JSON con TTL; cada Save renueva el TTL.
type SessionRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *goredis.Client, ttl time.Duration) *SessionRepo {
	return &SessionRepo{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return "dashboard:session:" + id
}

type sessionRecord struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	AccessToken     string     `json:"access_token"`
	RefreshToken    string     `json:"refresh_token"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toRecord(s *entity.Session) sessionRecord {
	r := sessionRecord{
		ID: s.ID, UserID: s.UserID, Email: s.Email, Username: s.Username,
		AccessToken: s.AccessToken, RefreshToken: s.RefreshToken,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
	if !s.AccessExpiresAt.IsZero() {
		t := s.AccessExpiresAt
		r.AccessExpiresAt = &t
	}
	return r
}

func (r sessionRecord) toEntity() *entity.Session {
	s := &entity.Session{
		ID: r.ID, UserID: r.UserID, Email: r.Email, Username: r.Username,
		AccessToken: r.AccessToken, RefreshToken: r.RefreshToken,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if r.AccessExpiresAt != nil {
		s.AccessExpiresAt = *r.AccessExpiresAt
	}
	return s
}

func (r *SessionRepo) Save(ctx context.Context, s *entity.Session) error {
	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si la clave no existe (vencida o eliminada).
func (r *SessionRepo) Get(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("redis decode session: %w", err)
	}
	return rec.toEntity(), nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
