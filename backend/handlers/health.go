package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

var startTime = time.Now()

// Health reports service liveness.
func (w *WebApp) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": w.Version,
		"uptime":  time.Since(startTime).String(),
	})
}
