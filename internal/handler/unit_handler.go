package handler

import (
	"inventory-ledger/internal/middleware"
	"inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UnitHandler struct {
	service service.UnitService
	log     *zap.Logger
}

func NewUnitHandler(s service.UnitService, log *zap.Logger) *UnitHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UnitHandler{service: s, log: log}
}

func (h *UnitHandler) GetUnits(c *fiber.Ctx) error {
	units, err := h.service.ListUnits()
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(units)
}

func (h *UnitHandler) CreateUnit(c *fiber.Ctx) error {
	var req service.CustomUnitInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	unit, err := h.service.CreateCustomUnit(req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Unit created", "data": unit})
}

// GetMappings lists global mappings plus those scoped to ?item_id.
func (h *UnitHandler) GetMappings(c *fiber.Ctx) error {
	mappings, err := h.service.ListMappings(c.Query("item_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(mappings)
}

func (h *UnitHandler) CreateMapping(c *fiber.Ctx) error {
	var req service.MappingInput
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	mapping, err := h.service.CreateMapping(req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Mapping created", "data": mapping})
}

func (h *UnitHandler) DeleteMapping(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mapping ID"})
	}
	if err := h.service.DeleteMapping(id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Mapping deleted"})
}

func (h *UnitHandler) Convert(c *fiber.Ctx) error {
	var req service.ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	out, err := h.service.Convert(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
