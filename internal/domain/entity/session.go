package entity

import "time"

// Session sesión del dashboard: guarda los tokens de la API remota del usuario.
// El navegador sólo recibe el token propio del dashboard con el ID de la sesión.
type Session struct {
	ID              string
	UserID          string
	Email           string
	Username        string
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time // zero si el token remoto no trae exp
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AccessExpiresWithin true si el access token vence antes de now+skew.
func (s *Session) AccessExpiresWithin(now time.Time, skew time.Duration) bool {
	if s.AccessExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(s.AccessExpiresAt)
}
