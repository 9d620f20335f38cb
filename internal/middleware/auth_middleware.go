package middleware

import (
	"strings"

	"inventory-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Privilege codes carried in the token.
const (
	PrivLedgerCommit = "ledger:commit"
	PrivLedgerAdjust = "ledger:adjust"
	PrivLotCreate    = "lot:create"
	PrivUnitManage   = "unit:manage"
	PrivItemManage   = "item:manage"
)

// AllPrivileges is every privilege the API checks.
var AllPrivileges = []string{PrivLedgerCommit, PrivLedgerAdjust, PrivLotCreate, PrivUnitManage, PrivItemManage}

// RequireAuth validates the bearer token and sets the actor in context
func RequireAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(secret, parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("actor_id", claims.ActorID)
		c.Locals("actor_name", claims.Name)
		c.Locals("privileges", claims.Privileges)

		return c.Next()
	}
}

// RequirePrivilege checks if the authenticated actor has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// ActorID returns the actor set by RequireAuth, or "system".
func ActorID(c *fiber.Ctx) string {
	if id, ok := c.Locals("actor_id").(string); ok && id != "" {
		return id
	}
	return "system"
}
