package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento. Los valores son los que usa la API remota en el campo "tipo".
type MovementKind string

const (
	MovementEntry      MovementKind = "ENTRADA" // suma al stock
	MovementExit       MovementKind = "SAIDA"   // resta del stock
	MovementAdjustment MovementKind = "AJUSTE"  // fija el stock a un valor absoluto
)

// Valid indica si k es uno de los tres tipos conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntry, MovementExit, MovementAdjustment:
		return true
	}
	return false
}

func (k MovementKind) String() string { return string(k) }

// Movement es una solicitud de cambio de stock (o un registro del historial remoto).
// No se guarda localmente: el historial vive en la API de estoque.
type Movement struct {
	ID          string
	ProductID   string
	ProductName string
	Kind        MovementKind
	Quantity    decimal.Decimal // delta para ENTRADA/SAIDA, valor absoluto para AJUSTE
	Note        string
	OccurredOn  *time.Time
	UserName    string
	CreatedAt   time.Time
}
