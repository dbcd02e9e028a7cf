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

// maxCategoryPages tope de páginas al listar categorías.
const maxCategoryPages = 20

// ListCategories GET /categorias/ (todas las páginas).
func (c *Client) ListCategories(ctx context.Context, auth repository.Authenticator) ([]*entity.Category, error) {
	var out []*entity.Category
	for page := 1; page <= maxCategoryPages; page++ {
		q := map[string]string{}
		if page > 1 {
			q["page"] = strconv.Itoa(page)
		}
		var raw json.RawMessage
		if err := c.doAuth(ctx, auth, call{op: "ListCategories", method: http.MethodGet, path: "/categorias/", query: q, out: &raw}); err != nil {
			return nil, err
		}
		p, err := decodeList[categoryWire](raw)
		if err != nil {
			return nil, err
		}
		for _, w := range p.Results {
			out = append(out, w.toEntity())
		}
		if p.Next == nil || *p.Next == "" {
			break
		}
	}
	return out, nil
}

// CreateCategory POST /categorias/.
func (c *Client) CreateCategory(ctx context.Context, auth repository.Authenticator, cat *entity.Category) (*entity.Category, error) {
	var w categoryWire
	err := c.doAuth(ctx, auth, call{op: "CreateCategory", method: http.MethodPost, path: "/categorias/",
		body: categoryRequest{Nome: cat.Name, Descricao: cat.Description}, out: &w})
	if err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

func categoryPath(id string) string { return "/categorias/" + url.PathEscape(id) + "/" }

// UpdateCategory PUT /categorias/{id}/.
func (c *Client) UpdateCategory(ctx context.Context, auth repository.Authenticator, cat *entity.Category) (*entity.Category, error) {
	var w categoryWire
	err := c.doAuth(ctx, auth, call{op: "UpdateCategory", method: http.MethodPut, path: categoryPath(cat.ID),
		body: categoryRequest{Nome: cat.Name, Descricao: cat.Description}, out: &w})
	if err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// DeleteCategory DELETE /categorias/{id}/. El servidor borra en cascada los productos de la categoría.
func (c *Client) DeleteCategory(ctx context.Context, auth repository.Authenticator, id string) error {
	return c.doAuth(ctx, auth, call{op: "DeleteCategory", method: http.MethodDelete, path: categoryPath(id)})
}

// Dashboard GET /dashboard/.
func (c *Client) Dashboard(ctx context.Context, auth repository.Authenticator) (*entity.DashboardStats, error) {
	var w dashboardWire
	if err := c.doAuth(ctx, auth, call{op: "Dashboard", method: http.MethodGet, path: "/dashboard/", out: &w}); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}
