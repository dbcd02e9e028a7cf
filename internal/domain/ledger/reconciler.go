// Package ledger concilia localmente un movimiento de stock antes de enviarlo a la API remota.
// Es puro: no hace I/O ni guarda estado entre llamadas.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-dashboard/internal/domain"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// FailureKind clasifica el rechazo local de un movimiento.
type FailureKind string

const (
	FailureInvalidQuantity   FailureKind = "INVALID_QUANTITY"
	FailureInsufficientStock FailureKind = "INSUFFICIENT_STOCK"
	FailureMalformedInput    FailureKind = "MALFORMED_INPUT"
)

// Failure rechazo local. Se devuelve como valor dentro de Result, nunca con panic.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Unwrap permite errors.Is(err, domain.ErrInvalidQuantity) y similares.
func (f *Failure) Unwrap() error {
	switch f.Kind {
	case FailureInvalidQuantity:
		return domain.ErrInvalidQuantity
	case FailureInsufficientStock:
		return domain.ErrInsufficientStock
	default:
		return domain.ErrMalformedInput
	}
}

// Outcome stock resultante de un movimiento aceptado.
type Outcome struct {
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	BelowMinimum  bool // informativo, nunca bloquea
}

// Result es Outcome o Failure (exactamente uno de los dos).
type Result struct {
	Outcome Outcome
	Failure *Failure
}

// OK true si el movimiento fue aceptado.
func (r Result) OK() bool { return r.Failure == nil }

// Err devuelve el Failure como error, o nil si fue aceptado.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

func fail(kind FailureKind, msg string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: msg}}
}

// Apply calcula el stock candidato de product tras un movimiento kind de quantity.
//
// Orden de validación:
//  1. ENTRADA/SAIDA con quantity <= 0 -> INVALID_QUANTITY
//  2. AJUSTE con quantity < 0 -> INVALID_QUANTITY
//  3. SAIDA con quantity > stock actual -> INSUFFICIENT_STOCK
//
// ENTRADA suma, SAIDA resta, AJUSTE reemplaza el stock por quantity.
// El stock actual puede ser negativo (correcciones del servidor); no se asume lo contrario.
func Apply(product entity.Product, kind entity.MovementKind, quantity decimal.Decimal) Result {
	current := product.CurrentStock

	var next decimal.Decimal
	switch kind {
	case entity.MovementEntry, entity.MovementExit:
		if !quantity.IsPositive() {
			return fail(FailureInvalidQuantity, "la cantidad debe ser mayor que cero")
		}
		if kind == entity.MovementExit {
			if quantity.GreaterThan(current) {
				return fail(FailureInsufficientStock,
					"stock insuficiente: disponible "+current.String()+", solicitado "+quantity.String())
			}
			next = current.Sub(quantity)
		} else {
			next = current.Add(quantity)
		}
	case entity.MovementAdjustment:
		if quantity.IsNegative() {
			return fail(FailureInvalidQuantity, "la cantidad del ajuste no puede ser negativa")
		}
		next = quantity
	default:
		return fail(FailureMalformedInput, "tipo de movimiento desconocido: "+string(kind))
	}

	return Result{Outcome: Outcome{
		PreviousStock: current,
		NewStock:      next,
		BelowMinimum:  next.LessThan(product.MinimumStock),
	}}
}

// IsLowStock mismo criterio estricto que BelowMinimum.
func IsLowStock(product entity.Product) bool {
	return product.IsLowStock()
}
