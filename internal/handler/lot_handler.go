package handler

import (
	"strconv"

	"inventory-ledger/internal/middleware"
	"inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LotHandler struct {
	service service.LotService
	log     *zap.Logger
}

func NewLotHandler(s service.LotService, log *zap.Logger) *LotHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LotHandler{service: s, log: log}
}

// createLotRequest is a restock plus the commit options.
type createLotRequest struct {
	service.RestockRequest
	Reference      string `json:"reference"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *LotHandler) CreateLot(c *fiber.Ctx) error {
	var req createLotRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	res, err := h.service.CreateLot(c.UserContext(), req.RestockRequest, service.CommitOptions{
		Reference:      req.Reference,
		IdempotencyKey: req.IdempotencyKey,
		Actor:          middleware.ActorID(c),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(committedStatus(res)).JSON(res)
}

func (h *LotHandler) AdjustLot(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid lot ID"})
	}
	var req service.AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	res, err := h.service.AdjustLot(c.UserContext(), id, req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(committedStatus(res)).JSON(res)
}

// GetItemLots lists an item's lots; ?include_empty=true adds depleted ones.
func (h *LotHandler) GetItemLots(c *fiber.Ctx) error {
	lots, err := h.service.ListLots(c.Params("id"), c.QueryBool("include_empty", false))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(lots)
}

// committedStatus is 201 for a new commit and 200 for an idempotent replay.
func committedStatus(res *service.CommitResult) int {
	if res.Replayed {
		return fiber.StatusOK
	}
	return fiber.StatusCreated
}
