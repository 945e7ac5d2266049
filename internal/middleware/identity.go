package middleware

import (
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

func SetIdentity(c *fiber.Ctx, id dto.Identity) {
	c.Locals(identityKey, id)
}

// CurrentIdentity returns the authenticated caller, if any.
func CurrentIdentity(c *fiber.Ctx) (dto.Identity, bool) {
	id, ok := c.Locals(identityKey).(dto.Identity)
	return id, ok && id.ID != 0
}
