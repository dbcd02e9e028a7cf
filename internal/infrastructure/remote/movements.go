package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// SubmitMovement envía el movimiento. ENTRADA/SAIDA van a POST /movimentacoes/;
// AJUSTE va a POST /produtos/{id}/ajustar_estoque/, que acepta cantidad 0.
func (c *Client) SubmitMovement(ctx context.Context, auth repository.Authenticator, m entity.Movement) (*entity.Movement, error) {
	note := m.Note
	if m.OccurredOn != nil {
		if note != "" {
			note += " "
		}
		note += "(data: " + m.OccurredOn.Format(dateLayout) + ")"
	}

	if m.Kind == entity.MovementAdjustment {
		var w productWire
		err := c.doAuth(ctx, auth, call{
			op: "AdjustStock", method: http.MethodPost, path: productPath(m.ProductID) + "ajustar_estoque/",
			body: adjustRequest{Quantidade: m.Quantity}, out: &w,
		})
		if err != nil {
			return nil, err
		}
		return &entity.Movement{
			ProductID:   m.ProductID,
			ProductName: w.Nome,
			Kind:        entity.MovementAdjustment,
			Quantity:    m.Quantity,
			Note:        note,
			OccurredOn:  m.OccurredOn,
		}, nil
	}

	var w movementWire
	err := c.doAuth(ctx, auth, call{
		op: "SubmitMovement", method: http.MethodPost, path: "/movimentacoes/",
		body: movementRequest{Produto: flexID(m.ProductID), Tipo: string(m.Kind), Quantidade: m.Quantity, Observacao: note},
		out:  &w,
	})
	if err != nil {
		return nil, err
	}
	out := w.toEntity()
	out.OccurredOn = m.OccurredOn
	return out, nil
}

// ListMovements GET /movimentacoes/ con filtros tipo, produto, data_inicio, data_fim.
func (c *Client) ListMovements(ctx context.Context, auth repository.Authenticator, f repository.MovementFilter) (*repository.MovementPage, error) {
	q := map[string]string{}
	if f.Page > 1 {
		q["page"] = strconv.Itoa(f.Page)
	}
	if f.Kind != "" {
		q["tipo"] = string(f.Kind)
	}
	if f.ProductID != "" {
		q["produto"] = f.ProductID
	}
	if f.From != nil {
		q["data_inicio"] = f.From.Format(dateLayout)
	}
	if f.To != nil {
		q["data_fim"] = f.To.Format(dateLayout)
	}

	var raw json.RawMessage
	if err := c.doAuth(ctx, auth, call{op: "ListMovements", method: http.MethodGet, path: "/movimentacoes/", query: q, out: &raw}); err != nil {
		return nil, err
	}
	p, err := decodeList[movementWire](raw)
	if err != nil {
		return nil, err
	}
	out := &repository.MovementPage{
		Count:   p.Count,
		HasNext: p.Next != nil && *p.Next != "",
		HasPrev: p.Previous != nil && *p.Previous != "",
		Items:   make([]*entity.Movement, 0, len(p.Results)),
	}
	for _, w := range p.Results {
		out.Items = append(out.Items, w.toEntity())
	}
	return out, nil
}
