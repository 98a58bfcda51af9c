package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/NestcoinCo/bren/backend/utils"
	"github.com/NestcoinCo/bren/bren/database/repositories"
)

// GetAllowance reports a Slack user's unspent weekly tip allowance. The
// figure is advisory; the commit transaction re-derives it before accepting a
// tip.
func (w *WebApp) GetAllowance(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return utils.SendBadRequest(c, "Missing username", nil)
	}

	if _, err := w.SlackUsers.GetByUsername(c.Context(), username); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.SendNotFound(c, "Unknown user")
		}
		return utils.SendInternalServerError(c, "Could not look up user")
	}

	now := time.Now()
	remaining, err := w.Allowance.Remaining(c.Context(), username, now)
	if err != nil {
		return utils.SendInternalServerError(c, "Could not compute allowance")
	}

	return utils.SendSuccess(c, fiber.Map{
		"username":           username,
		"remainingAllowance": remaining,
		"weeklyAllowance":    w.Allowance.Cap,
		"weekStart":          w.Allowance.Week(now),
	}, "")
}
