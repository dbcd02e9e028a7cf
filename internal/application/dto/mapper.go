package dto

import (
	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// FromProduct mapea un producto del servidor a su respuesta.
func FromProduct(p *entity.Product) ProductResponse {
	if p == nil {
		return ProductResponse{}
	}
	r := ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		Unit:         p.Unit,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		Active:       p.Active,
		BelowMinimum: p.IsLowStock(),
		Deficit:      p.Deficit(),
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		r.UpdatedAt = &t
	}
	return r
}

// FromProducts mapea una lista.
func FromProducts(ps []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromProduct(p))
	}
	return out
}

// FromMovement mapea un movimiento del historial.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Kind:        string(m.Kind),
		Quantity:    m.Quantity,
		Note:        m.Note,
		UserName:    m.UserName,
		CreatedAt:   m.CreatedAt,
	}
}

// FromCategory mapea una categoría.
func FromCategory(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// FromUser mapea el perfil remoto.
func FromUser(u *entity.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		IsStaff:   u.IsStaff,
	}
}
