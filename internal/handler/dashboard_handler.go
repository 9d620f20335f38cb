package handler

import (
	"strconv"

	"inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStockMovement returns stock movement data for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock movement"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetValuation returns remaining stock value per item
func (h *DashboardHandler) GetValuation(c *fiber.Ctx) error {
	valuation, err := h.service.GetValuation()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch valuation"})
	}

	return c.JSON(valuation)
}

// GetEntries returns ledger entries newest first
// Query params: item_id, limit (default 100)
func (h *DashboardHandler) GetEntries(c *fiber.Ctx) error {
	entries, err := h.service.GetHistory(c.Query("item_id"), c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch ledger entries"})
	}

	return c.JSON(entries)
}
