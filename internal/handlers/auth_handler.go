package handlers

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, "Registration successful", resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if valid, err := parseBody(c, &req); !valid {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "Login successful", resp)
}

// Logout is public. A bearer token, when sent, is revoked if revocation is enabled.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	raw := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if err := h.authService.Logout(c.UserContext(), strings.TrimSpace(raw)); err != nil {
		return err
	}
	return ok(c, "Logout successful", nil)
}
