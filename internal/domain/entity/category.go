package entity

import "time"

// Category representa una categoría de productos de la API remota.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
