package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/auth"
	"github.com/jhoicas/Inventario-dashboard/internal/application/inventory"
	"github.com/jhoicas/Inventario-dashboard/internal/application/report"
	"github.com/jhoicas/Inventario-dashboard/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	Sessions         *auth.SessionManager
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	StockOverview    *inventory.StockOverviewUseCase
	MovementHistory  *inventory.MovementHistoryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	LowStockReport   *report.LowStockReportUseCase
	JWTSecret        string
	AuthPerMinute    int
	AuthBurst        int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, con límite por IP)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	limited := RateLimit(deps.AuthPerMinute, deps.AuthBurst)
	authGroup.Post("/login", limited, authHandler.Login)
	authGroup.Post("/register", limited, authHandler.Register)

	// Rutas protegidas (requieren Bearer Token y sesión viva)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Sessions))

	protected.Get("/auth/profile", authHandler.Profile)
	protected.Put("/auth/profile", authHandler.UpdateProfile)
	protected.Post("/auth/change-password", limited, authHandler.ChangePassword)
	protected.Post("/auth/logout", authHandler.Logout)

	// Estoque
	stock := protected.Group("/stock")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockOverview, deps.MovementHistory, deps.Replenishment)
	stock.Get("/", inventoryHandler.Overview)
	stock.Get("/replenishment", inventoryHandler.Replenishment)
	stock.Post("/movements", inventoryHandler.RegisterMovement)
	stock.Post("/movements/preview", inventoryHandler.PreviewMovement)
	stock.Get("/movements", inventoryHandler.ListMovements)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Dashboard y reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.LowStockReport)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
	protected.Get("/reports/low-stock.pdf", dashboardHandler.LowStockReport)
}
