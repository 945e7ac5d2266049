package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	msgNoToken      = "No token provided. Authorization header must be in format: Bearer <token>"
	msgTokenExpired = "Token expired"
	msgTokenInvalid = "Invalid token"
)

// JWTProtected verifies the bearer token and stores the caller's dto.Identity in Locals.
// blacklist may be nil.
func JWTProtected(cfg *config.Config, blacklist services.TokenBlacklist) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		Claims:     &services.Claims{},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, msgTokenInvalid)
			}
			claims, ok := token.Claims.(*services.Claims)
			if !ok || claims.UserID == 0 {
				return unauthorized(c, msgTokenInvalid)
			}

			if blacklist != nil && claims.ID != "" {
				revoked, err := blacklist.IsRevoked(c.UserContext(), claims.ID)
				if err != nil {
					// An unreachable blacklist lets the token through.
					slog.Warn("token blacklist lookup failed", "error", err, "user_id", claims.UserID)
				} else if revoked {
					return unauthorized(c, msgTokenInvalid)
				}
			}

			SetIdentity(c, claims.Identity())
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
				return unauthorized(c, msgNoToken)
			case errors.Is(err, jwt.ErrTokenExpired):
				return unauthorized(c, msgTokenExpired)
			default:
				return unauthorized(c, msgTokenInvalid)
			}
		},
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.Envelope{
		Success: false,
		Message: message,
	})
}
