package entity

import "github.com/shopspring/decimal"

// DashboardStats totales que calcula la API remota en /dashboard/.
type DashboardStats struct {
	TotalProducts    int
	ActiveProducts   int
	Categories       int
	MovementsToday   int
	LowStockProducts int
	MostMoved        []MovedProduct // últimos 30 días
}

// MovedProduct produto con la suma de cantidades movidas.
type MovedProduct struct {
	Name  string
	Total decimal.Decimal
}
