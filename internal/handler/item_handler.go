package handler

import (
	"inventory-ledger/internal/middleware"
	"inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ItemHandler struct {
	service service.ItemService
	log     *zap.Logger
}

func NewItemHandler(s service.ItemService, log *zap.Logger) *ItemHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemHandler{service: s, log: log}
}

func (h *ItemHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.ListItems()
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(items)
}

func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	item, err := h.service.GetItem(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Item not found"})
	}
	return c.JSON(item)
}

func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var req service.ItemInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	item, err := h.service.CreateItem(req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	var req service.ItemInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	item, err := h.service.UpdateItem(id, req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}
