package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/remote"
)

func TestErrorResponse_Mapeo(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"cantidad", fmt.Errorf("ledger: %w", domain.ErrInvalidQuantity), fiber.StatusBadRequest, "INVALID_QUANTITY"},
		{"mal formado", domain.ErrMalformedInput, fiber.StatusBadRequest, "MALFORMED_INPUT"},
		{"validación", fmt.Errorf("%w: code requerido", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{"stock insuficiente", domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{"sesión", domain.ErrSessionExpired, fiber.StatusUnauthorized, "SESSION_EXPIRED"},
		{"credenciales", domain.ErrUnauthorized, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"no existe", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"caído", domain.ErrRemoteUnreachable, fiber.StatusServiceUnavailable, "REMOTE_UNREACHABLE"},
		{"otro", errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := errorResponse(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorResponse_RechazoRemotoConCampos(t *testing.T) {
	err := fmt.Errorf("inventory: %w", &remote.Error{
		Op:         "POST /movimentacoes/",
		StatusCode: 400,
		Message:    "quantidade: Certifique-se de que este valor seja maior que 0.",
		Fields:     map[string][]string{"quantidade": {"Certifique-se de que este valor seja maior que 0."}},
		Err:        domain.ErrRemoteRejected,
	})

	status, body := errorResponse(err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "REMOTE_REJECTED", body.Code)
	assert.Equal(t, "quantidade: Certifique-se de que este valor seja maior que 0.", body.Message)
	assert.Contains(t, body.Fields, "quantidade")
	assert.False(t, body.Retryable)
}

func TestErrorResponse_CaidoEsReintentable(t *testing.T) {
	_, body := errorResponse(&remote.Error{Op: "GET /produtos/", Err: domain.ErrRemoteUnreachable})
	assert.True(t, body.Retryable)
}

func TestErrorResponse_CredencialesUsaMensajeDelServidor(t *testing.T) {
	_, body := errorResponse(&remote.Error{
		Op: "POST /token/", StatusCode: 401, Message: "No active account found with the given credentials", Err: domain.ErrUnauthorized,
	})
	assert.Equal(t, "No active account found with the given credentials", body.Message)
}
