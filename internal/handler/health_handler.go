package handler

import (
	"ai-governance/internal/config"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	appCfg config.AppConfig
}

func NewHealthHandler(appCfg config.AppConfig) *HealthHandler {
	return &HealthHandler{appCfg: appCfg}
}

// Root godoc
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "AI Governance Assessor API",
		"version": h.appCfg.Version,
	})
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}
