package handler

import (
	"inventory-ledger/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Units     *UnitHandler
	Items     *ItemHandler
	Lots      *LotHandler
	Ledger    *LedgerHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts the API on router behind RequireAuth. Nil handlers
// are skipped.
func RegisterRoutes(router fiber.Router, secret []byte, h Handlers) {
	protected := router.Group("", middleware.RequireAuth(secret))
	priv := middleware.RequirePrivilege

	if h.Units != nil {
		protected.Get("/units", h.Units.GetUnits)
		protected.Post("/units", priv(middleware.PrivUnitManage), h.Units.CreateUnit)
		protected.Get("/units/mappings", h.Units.GetMappings)
		protected.Post("/units/mappings", priv(middleware.PrivUnitManage), h.Units.CreateMapping)
		protected.Delete("/units/mappings/:id", priv(middleware.PrivUnitManage), h.Units.DeleteMapping)
		protected.Post("/units/convert", h.Units.Convert)
	}

	if h.Items != nil {
		protected.Get("/items", h.Items.GetItems)
		protected.Get("/items/:id", h.Items.GetItem)
		protected.Post("/items", priv(middleware.PrivItemManage), h.Items.CreateItem)
		protected.Put("/items/:id", priv(middleware.PrivItemManage), h.Items.UpdateItem)
	}

	if h.Lots != nil {
		protected.Get("/items/:id/lots", h.Lots.GetItemLots)
		protected.Post("/lots", priv(middleware.PrivLotCreate), h.Lots.CreateLot)
		protected.Post("/lots/:id/adjust", priv(middleware.PrivLedgerAdjust), h.Lots.AdjustLot)
	}

	if h.Ledger != nil {
		protected.Post("/ledger/availability", h.Ledger.CheckAvailability)
		protected.Post("/ledger/plan", h.Ledger.Plan)
		protected.Post("/ledger/commit", priv(middleware.PrivLedgerCommit), h.Ledger.Commit)
	}

	if h.Dashboard != nil {
		protected.Get("/ledger/entries", h.Dashboard.GetEntries)
		protected.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)
		protected.Get("/dashboard/valuation", h.Dashboard.GetValuation)
	}
}
