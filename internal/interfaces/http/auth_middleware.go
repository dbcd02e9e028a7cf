package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalSessionID = "session_id"
	LocalUserID    = "user_id"
	LocalEmail     = "email"
)

// sessionChecker lo implementa *auth.SessionManager (ErrSessionExpired si la sesión ya no existe).
type sessionChecker interface {
	Get(ctx context.Context, sessionID string) (*entity.Session, error)
}

// AuthMiddleware valida el Bearer Token del dashboard, verifica que la sesión siga viva
// y deja session_id, user_id y email en c.Locals.
func AuthMiddleware(jwtSecret string, sessions sessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if sessions != nil {
			if _, err := sessions.Get(c.UserContext(), claims.SessionID); err != nil {
				return writeError(c, err)
			}
		}
		c.Locals(LocalSessionID, claims.SessionID)
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		return c.Next()
	}
}

// GetSessionID devuelve el ID de sesión del contexto (después del middleware de auth).
func GetSessionID(c *fiber.Ctx) string {
	return localString(c, LocalSessionID)
}

// GetUserID devuelve el UserID remoto del contexto.
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetEmail devuelve el email del usuario de la sesión.
func GetEmail(c *fiber.Ctx) string {
	return localString(c, LocalEmail)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
