package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain"
)

// remoteDetail lo implementa remote.Error.
type remoteDetail interface {
	error
	ServerMessage() string
	FieldErrors() map[string][]string
}

// writeError traduce los errores de dominio a la respuesta HTTP.
//
//	INVALID_QUANTITY / MALFORMED_INPUT / VALIDATION → 400
//	INSUFFICIENT_STOCK                             → 409
//	REMOTE_REJECTED                                → 422 (mensaje del servidor + campos)
//	REMOTE_UNREACHABLE                             → 503 (retryable)
//	SESSION_EXPIRED / INVALID_CREDENTIALS          → 401
//	NOT_FOUND                                      → 404
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var detail remoteDetail
	hasDetail := errors.As(err, &detail)

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()}
	case errors.Is(err, domain.ErrMalformedInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "MALFORMED_INPUT", Message: err.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrSessionExpired):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "sesión expirada, inicie sesión nuevamente"}
	case errors.Is(err, domain.ErrUnauthorized):
		msg := "credenciales inválidas"
		if hasDetail && detail.ServerMessage() != "" {
			msg = detail.ServerMessage()
		}
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: msg}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrRemoteRejected):
		body := dto.ErrorResponse{Code: "REMOTE_REJECTED", Message: err.Error()}
		if hasDetail {
			if m := detail.ServerMessage(); m != "" {
				body.Message = m
			}
			body.Fields = detail.FieldErrors()
		}
		return fiber.StatusUnprocessableEntity, body
	case errors.Is(err, domain.ErrRemoteUnreachable):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{
			Code: "REMOTE_UNREACHABLE", Message: "API de estoque no disponible, intente nuevamente", Retryable: true,
		}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
