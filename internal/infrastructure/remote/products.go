package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
)

func productPath(id string) string { return "/produtos/" + url.PathEscape(id) + "/" }

// ListProducts GET /produtos/ con paginación DRF.
func (c *Client) ListProducts(ctx context.Context, auth repository.Authenticator, f repository.ProductFilter) (*repository.ProductPage, error) {
	q := map[string]string{}
	if f.Page > 1 {
		q["page"] = strconv.Itoa(f.Page)
	}
	if f.Search != "" {
		q["search"] = f.Search
	}
	if f.LowStockOnly {
		q["estoque_baixo"] = "true"
	}
	if f.Active != nil {
		q["ativo"] = strconv.FormatBool(*f.Active)
	}
	if f.CategoryID != "" {
		q["categoria"] = f.CategoryID
	}

	var raw json.RawMessage
	if err := c.doAuth(ctx, auth, call{op: "ListProducts", method: http.MethodGet, path: "/produtos/", query: q, out: &raw}); err != nil {
		return nil, err
	}
	p, err := decodeList[productWire](raw)
	if err != nil {
		return nil, err
	}
	out := &repository.ProductPage{
		Count:   p.Count,
		HasNext: p.Next != nil && *p.Next != "",
		HasPrev: p.Previous != nil && *p.Previous != "",
		Items:   make([]*entity.Product, 0, len(p.Results)),
	}
	for _, w := range p.Results {
		out.Items = append(out.Items, w.toEntity())
	}
	return out, nil
}

// GetProduct GET /produtos/{id}/.
func (c *Client) GetProduct(ctx context.Context, auth repository.Authenticator, id string) (*entity.Product, error) {
	var w productWire
	if err := c.doAuth(ctx, auth, call{op: "GetProduct", method: http.MethodGet, path: productPath(id), out: &w}); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// CreateProduct POST /produtos/.
func (c *Client) CreateProduct(ctx context.Context, auth repository.Authenticator, p *entity.Product) (*entity.Product, error) {
	var w productWire
	err := c.doAuth(ctx, auth, call{op: "CreateProduct", method: http.MethodPost, path: "/produtos/", body: toProductRequest(p), out: &w})
	if err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// UpdateProduct PUT /produtos/{id}/.
func (c *Client) UpdateProduct(ctx context.Context, auth repository.Authenticator, p *entity.Product) (*entity.Product, error) {
	var w productWire
	err := c.doAuth(ctx, auth, call{op: "UpdateProduct", method: http.MethodPut, path: productPath(p.ID), body: toProductRequest(p), out: &w})
	if err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// DeleteProduct DELETE /produtos/{id}/.
func (c *Client) DeleteProduct(ctx context.Context, auth repository.Authenticator, id string) error {
	return c.doAuth(ctx, auth, call{op: "DeleteProduct", method: http.MethodDelete, path: productPath(id)})
}

// ListLowStock GET /produtos/baixo_estoque/ (arreglo sin paginar).
func (c *Client) ListLowStock(ctx context.Context, auth repository.Authenticator) ([]*entity.Product, error) {
	var raw json.RawMessage
	if err := c.doAuth(ctx, auth, call{op: "ListLowStock", method: http.MethodGet, path: "/produtos/baixo_estoque/", out: &raw}); err != nil {
		return nil, err
	}
	p, err := decodeList[productWire](raw)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(p.Results))
	for _, w := range p.Results {
		out = append(out, w.toEntity())
	}
	return out, nil
}
