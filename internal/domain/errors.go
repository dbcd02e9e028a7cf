package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")

	// Conciliación local de movimientos.
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrMalformedInput    = errors.New("entrada mal formada")

	// API remota de estoque.
	ErrRemoteRejected    = errors.New("la API de estoque rechazó la operación")
	ErrRemoteUnreachable = errors.New("API de estoque no disponible")
	ErrSessionExpired    = errors.New("sesión expirada")
)
