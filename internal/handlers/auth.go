package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Keerthana-MS/medibook-backend/internal/config"
	"github.com/Keerthana-MS/medibook-backend/internal/middleware"
)

// AuthHandler handles admin authentication
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// AdminLogin checks the configured admin credentials and issues an admin
// token
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Username != h.cfg.AdminUsername || req.Password != h.cfg.AdminPassword {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid username or password",
		})
	}

	token, err := middleware.IssueToken(h.cfg.JWTSecret, middleware.RoleAdmin, req.Username)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue token",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
