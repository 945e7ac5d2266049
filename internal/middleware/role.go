package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through only when the caller holds one of roles.
// It must run after JWTProtected.
func RequireRole(roles ...models.Role) fiber.Handler {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	denied := "Access denied. Required role: " + strings.Join(names, " or ")

	return func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return unauthorized(c, "Authentication required")
		}
		if !models.RoleAllowed(id.Role, roles) {
			return c.Status(fiber.StatusForbidden).JSON(dto.Envelope{
				Success: false,
				Message: denied,
			})
		}
		return c.Next()
	}
}
