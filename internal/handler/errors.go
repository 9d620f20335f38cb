package handler

import (
	"errors"

	"inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindInsufficientStock, service.KindMissingDensity, service.KindMissingCustomMapping:
		return fiber.StatusUnprocessableEntity
	case service.KindUnresolvableConversion, service.KindValidation:
		return fiber.StatusBadRequest
	case service.KindContention:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// respondError writes err with the status of its kind. Internal errors are
// logged and not echoed to the client.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	kind := service.KindOf(err)
	status := statusFor(kind)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error", "kind": kind})
	}

	body := fiber.Map{"error": err.Error(), "kind": kind}
	var insufficient *service.InsufficientStockError
	if errors.As(err, &insufficient) {
		body["shortages"] = insufficient.Shortages
	}
	return c.Status(status).JSON(body)
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON", "kind": service.KindValidation})
}
