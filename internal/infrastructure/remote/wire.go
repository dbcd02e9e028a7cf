package remote

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-dashboard/internal/domain/entity"
)

// flexID acepta ids numéricos o string (Django devuelve enteros).
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// MarshalJSON envía el id como número cuando lo es (clave foránea de DRF).
func (f flexID) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// page respuesta paginada de DRF.
type page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// decodeList acepta tanto una página DRF como un arreglo plano.
func decodeList[T any](body []byte) (page[T], error) {
	var p page[T]
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &p.Results); err != nil {
			return p, err
		}
		p.Count = len(p.Results)
		return p, nil
	}
	err := json.Unmarshal(trimmed, &p)
	return p, err
}

type productWire struct {
	ID            flexID          `json:"id"`
	Codigo        string          `json:"codigo"`
	Nome          string          `json:"nome"`
	Descricao     *string         `json:"descricao"`
	Categoria     flexID          `json:"categoria"`
	CategoriaNome string          `json:"categoria_nome"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	Unidade       string          `json:"unidade"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo"`
	Ativo         *bool           `json:"ativo"`
	CreatedAt     *time.Time      `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at"`
}

func (w productWire) toEntity() *entity.Product {
	p := &entity.Product{
		ID:           string(w.ID),
		Code:         w.Codigo,
		Name:         w.Nome,
		CategoryID:   string(w.Categoria),
		CategoryName: w.CategoriaNome,
		CurrentStock: w.Quantidade,
		MinimumStock: w.EstoqueMinimo,
		Unit:         w.Unidade,
		CostPrice:    w.PrecoCusto,
		SalePrice:    w.PrecoVenda,
		Active:       true, // el listado no trae "ativo"
	}
	if w.Descricao != nil {
		p.Description = *w.Descricao
	}
	if w.Ativo != nil {
		p.Active = *w.Ativo
	}
	if w.CreatedAt != nil {
		p.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		p.UpdatedAt = *w.UpdatedAt
	}
	return p
}

type productRequest struct {
	Codigo        string          `json:"codigo"`
	Nome          string          `json:"nome"`
	Descricao     string          `json:"descricao"`
	Categoria     flexID          `json:"categoria"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	Unidade       string          `json:"unidade"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo"`
	Ativo         bool            `json:"ativo"`
}

func toProductRequest(p *entity.Product) productRequest {
	return productRequest{
		Codigo:        p.Code,
		Nome:          p.Name,
		Descricao:     p.Description,
		Categoria:     flexID(p.CategoryID),
		Quantidade:    p.CurrentStock,
		Unidade:       p.Unit,
		PrecoCusto:    p.CostPrice,
		PrecoVenda:    p.SalePrice,
		EstoqueMinimo: p.MinimumStock,
		Ativo:         p.Active,
	}
}

type movementWire struct {
	ID          flexID          `json:"id"`
	Produto     flexID          `json:"produto"`
	ProdutoNome string          `json:"produto_nome"`
	Tipo        string          `json:"tipo"`
	Quantidade  decimal.Decimal `json:"quantidade"`
	Observacao  *string         `json:"observacao"`
	UsuarioNome string          `json:"usuario_nome"`
	CreatedAt   *time.Time      `json:"created_at"`
}

func (w movementWire) toEntity() *entity.Movement {
	m := &entity.Movement{
		ID:          string(w.ID),
		ProductID:   string(w.Produto),
		ProductName: w.ProdutoNome,
		Kind:        entity.MovementKind(w.Tipo),
		Quantity:    w.Quantidade,
		UserName:    w.UsuarioNome,
	}
	if w.Observacao != nil {
		m.Note = *w.Observacao
	}
	if w.CreatedAt != nil {
		m.CreatedAt = *w.CreatedAt
	}
	return m
}

type movementRequest struct {
	Produto    flexID          `json:"produto"`
	Tipo       string          `json:"tipo"`
	Quantidade decimal.Decimal `json:"quantidade"`
	Observacao string          `json:"observacao,omitempty"`
}

type adjustRequest struct {
	Quantidade decimal.Decimal `json:"quantidade"`
}

type categoryWire struct {
	ID        flexID     `json:"id"`
	Nome      string     `json:"nome"`
	Descricao *string    `json:"descricao"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (w categoryWire) toEntity() *entity.Category {
	c := &entity.Category{ID: string(w.ID), Name: w.Nome}
	if w.Descricao != nil {
		c.Description = *w.Descricao
	}
	if w.CreatedAt != nil {
		c.CreatedAt = *w.CreatedAt
	}
	if w.UpdatedAt != nil {
		c.UpdatedAt = *w.UpdatedAt
	}
	return c
}

type categoryRequest struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao,omitempty"`
}

type userWire struct {
	ID        flexID `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

func (w userWire) toEntity() *entity.User {
	return &entity.User{
		ID:        string(w.ID),
		Email:     w.Email,
		Username:  w.Username,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		IsStaff:   w.IsStaff,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh"`
	User    *userWire `json:"user"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type profileUpdateRequest struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type dashboardWire struct {
	TotalProdutos        int `json:"total_produtos"`
	ProdutosAtivos       int `json:"produtos_ativos"`
	Categorias           int `json:"categorias"`
	MovimentacoesHoje    int `json:"movimentacoes_hoje"`
	ProdutosBaixoEstoque int `json:"produtos_baixo_estoque"`
	MaisMovimentados     []struct {
		Nome  string          `json:"produto__nome"`
		Total decimal.Decimal `json:"total_movimentado"`
	} `json:"produtos_mais_movimentados"`
}

func (w dashboardWire) toEntity() *entity.DashboardStats {
	s := &entity.DashboardStats{
		TotalProducts:    w.TotalProdutos,
		ActiveProducts:   w.ProdutosAtivos,
		Categories:       w.Categorias,
		MovementsToday:   w.MovimentacoesHoje,
		LowStockProducts: w.ProdutosBaixoEstoque,
	}
	for _, m := range w.MaisMovimentados {
		s.MostMoved = append(s.MostMoved, entity.MovedProduct{Name: m.Nome, Total: m.Total})
	}
	return s
}
