package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/config"
)

// SettingsHandler exposes presentation settings to clients.
type SettingsHandler struct {
	display config.DisplayConfig
}

func NewSettingsHandler(display config.DisplayConfig) *SettingsHandler {
	return &SettingsHandler{display: display}
}

// Get GET /api/settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"organizationName": h.display.Name},
	})
}
