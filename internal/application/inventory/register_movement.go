package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-dashboard/internal/application/dto"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/ledger"
)

// MovementInputDTO movimiento ya interpretado, listo para conciliar.
type MovementInputDTO struct {
	ProductID  string
	Kind       entity.MovementKind
	Quantity   decimal.Decimal
	Note       string
	OccurredOn *time.Time
}

// ParseMovementRequest adapta el request HTTP. Cualquier campo que no se pueda interpretar
// (producto vacío, tipo desconocido, cantidad no numérica, fecha mal formada) es MALFORMED_INPUT.
func ParseMovementRequest(in dto.RegisterMovementRequest) (MovementInputDTO, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return MovementInputDTO{}, &ledger.Failure{Kind: ledger.FailureMalformedInput, Message: "el producto es obligatorio"}
	}
	kind, err := ledger.ParseKind(in.Kind)
	if err != nil {
		return MovementInputDTO{}, err
	}
	qty, err := ledger.ParseQuantity(string(in.Quantity))
	if err != nil {
		return MovementInputDTO{}, err
	}
	out := MovementInputDTO{
		ProductID: productID,
		Kind:      kind,
		Quantity:  qty,
		Note:      strings.TrimSpace(in.Note),
	}
	if s := strings.TrimSpace(in.OccurredOn); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return MovementInputDTO{}, &ledger.Failure{Kind: ledger.FailureMalformedInput, Message: "fecha inválida (use AAAA-MM-DD): " + s}
		}
		out.OccurredOn = &d
	}
	return out, nil
}

const dateLayout = "2006-01-02"
