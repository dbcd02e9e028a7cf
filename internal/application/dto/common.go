package dto

// PageRequest paginación para listados (páginas de la API remota, empieza en 1).
type PageRequest struct {
	Page int `query:"page"`
}

// DefaultPage aplica valores por defecto.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page    int  `json:"page"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Fields    map[string][]string `json:"fields,omitempty"`
	Retryable bool                `json:"retryable,omitempty"`
}
