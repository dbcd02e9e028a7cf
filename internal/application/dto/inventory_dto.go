package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// QuantityInput cantidad tal como llega del formulario: número JSON o string.
// Se valida en el caso de uso para distinguir MALFORMED_INPUT de INVALID_QUANTITY.
type QuantityInput string

func (q *QuantityInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = QuantityInput(s)
		return nil
	}
	*q = QuantityInput(b)
	return nil
}

// RegisterMovementRequest body para POST /api/stock/movements (y /preview).
type RegisterMovementRequest struct {
	ProductID  string        `json:"product_id"`
	Kind       string        `json:"kind"` // ENTRADA, SAIDA, AJUSTE (o ENTRY, EXIT, ADJUSTMENT)
	Quantity   QuantityInput `json:"quantity"`
	Note       string        `json:"note"`
	OccurredOn string        `json:"occurred_on"` // YYYY-MM-DD opcional
}

// MovementResultResponse resultado de un movimiento aceptado por el servidor.
// Product trae siempre los valores del servidor; ExpectedStock es el cálculo local.
type MovementResultResponse struct {
	MovementID    string          `json:"movement_id,omitempty"`
	Product       ProductResponse `json:"product"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	ExpectedStock decimal.Decimal `json:"expected_stock"`
	BelowMinimum  bool            `json:"below_minimum"`
	Refreshed     bool            `json:"refreshed"` // false si no se pudo releer el producto
	Diverged      bool            `json:"diverged"`  // stock del servidor != esperado
}

// MovementPreviewResponse conciliación local sin enviar nada.
type MovementPreviewResponse struct {
	ProductID     string          `json:"product_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	Accepted      bool            `json:"accepted"`
	NewStock      decimal.Decimal `json:"new_stock"`
	BelowMinimum  bool            `json:"below_minimum"`
	FailureCode   string          `json:"failure_code,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// StockOverviewRequest query de GET /api/stock.
type StockOverviewRequest struct {
	Search       string `query:"search"`
	LowStockOnly bool   `query:"low_stock_only"`
}

// StockOverviewResponse listado de estoque ordenado por nombre.
// Stale=true si la API no respondió y se devolvió el espejo local.
type StockOverviewResponse struct {
	Items         []ProductResponse `json:"items"`
	Total         int               `json:"total"`
	LowStockCount int               `json:"low_stock_count"`
	Stale         bool              `json:"stale"`
	Truncated     bool              `json:"truncated,omitempty"`
	SyncedAt      *time.Time        `json:"synced_at,omitempty"`
}

// MovementListRequest query de GET /api/stock/movements.
type MovementListRequest struct {
	PageRequest
	Kind      string `query:"kind"`
	ProductID string `query:"product_id"`
	From      string `query:"from"` // YYYY-MM-DD
	To        string `query:"to"`
}

// MovementResponse movimiento del historial remoto.
type MovementResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Kind        string          `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"`
	Note        string          `json:"note,omitempty"`
	UserName    string          `json:"user_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MovementListResponse página del historial.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
