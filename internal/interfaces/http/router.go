package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pharma-stock/internal/application/pharmacy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LotUC       *pharmacy.LotUseCase
	AllocatorUC *pharmacy.AllocatorUseCase
	LedgerUC    *pharmacy.LedgerUseCase
	SnapshotUC  *pharmacy.SnapshotUseCase
	SettingsUC  *pharmacy.SettingsUseCase
	JWTSecret   string
}

// Router registra las rutas de la API bajo /api/pharmacy (Bearer Token).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	pharmacyGroup := api.Group("/pharmacy", AuthMiddleware(deps.JWTSecret))

	// Lots (protegido)
	lots := pharmacyGroup.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Post("/", lotHandler.CreateLot)
	lots.Get("/", lotHandler.ListLots)
	lots.Get("/:id", lotHandler.GetLot)
	lots.Put("/:id", lotHandler.UpdateLot)

	// Stock: ledger de movimientos y valorización (protegido)
	stock := pharmacyGroup.Group("/stock")
	stockHandler := NewStockHandler(deps.AllocatorUC, deps.LedgerUC, deps.SnapshotUC)
	stock.Post("/movement", stockHandler.RegisterMovement)
	stock.Get("/movements", stockHandler.ListMovements)
	stock.Get("/inventory", stockHandler.Inventory)

	// Products: catálogo con disponibilidad (protegido, solo lectura)
	products := pharmacyGroup.Group("/products")
	productHandler := NewProductHandler(deps.SnapshotUC)
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)

	// Dashboard y alertas (protegido)
	dashboardHandler := NewDashboardHandler(deps.SnapshotUC)
	pharmacyGroup.Get("/dashboard", dashboardHandler.Dashboard)
	pharmacyGroup.Get("/alerts", dashboardHandler.Alerts)

	// Settings (protegido; la escritura queda restringida a admin)
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	pharmacyGroup.Get("/settings", settingsHandler.GetSettings)
	pharmacyGroup.Put("/settings", RequireRole("admin"), settingsHandler.UpdateSettings)
}
