package handler

import (
	"inventory-ledger/internal/middleware"
	"inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	coordinator service.LedgerCoordinator
	checker     service.AvailabilityChecker
	log         *zap.Logger
}

func NewLedgerHandler(coordinator service.LedgerCoordinator, checker service.AvailabilityChecker, log *zap.Logger) *LedgerHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerHandler{coordinator: coordinator, checker: checker, log: log}
}

type planBody struct {
	Requests []service.PlanRequest `json:"requests"`
}

func (h *LedgerHandler) CheckAvailability(c *fiber.Ctx) error {
	var body planBody
	if err := c.BodyParser(&body); err != nil {
		return badJSON(c)
	}
	results, err := h.checker.CheckAvailability(c.UserContext(), body.Requests)
	if err != nil {
		return respondError(c, h.log, err)
	}
	satisfiable := true
	for _, r := range results {
		satisfiable = satisfiable && r.Satisfiable
	}
	return c.JSON(fiber.Map{"satisfiable": satisfiable, "results": results})
}

// Plan returns the dry-run plans with their lot lines.
func (h *LedgerHandler) Plan(c *fiber.Ctx) error {
	var body planBody
	if err := c.BodyParser(&body); err != nil {
		return badJSON(c)
	}
	plans, err := h.checker.Plan(c.UserContext(), body.Requests)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}

func (h *LedgerHandler) Commit(c *fiber.Ctx) error {
	var req service.CommitRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	req.Actor = middleware.ActorID(c)
	res, err := h.coordinator.Commit(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(committedStatus(res)).JSON(res)
}
