package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NestcoinCo/bren/backend/utils"
	"github.com/NestcoinCo/bren/bren/services"
)

// GetLeaderboard returns ranked tipping totals, optionally scoped to one
// platform and filtered by a fuzzy username query.
func (w *WebApp) GetLeaderboard(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	platform := c.Query("platform")
	switch platform {
	case "", "FARCASTER", "SLACK", "farcaster", "slack":
	default:
		return utils.SendBadRequest(c, "Unknown platform", map[string]string{
			"platform": "must be FARCASTER or SLACK",
		})
	}

	entries, err := w.Leaderboard.Leaderboard(c.Context(), services.Query{
		Platform: platform,
		Search:   c.Query("q"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return utils.SendInternalServerError(c, "Could not load leaderboard")
	}

	return utils.SendSuccess(c, fiber.Map{
		"page":    page,
		"limit":   limit,
		"entries": entries,
	}, "")
}
