package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/NestcoinCo/bren/backend/models"
	"github.com/NestcoinCo/bren/backend/utils"
	"github.com/NestcoinCo/bren/bren/points"
)

// UserEvent records a declared business event and credits points per the
// event table. Requires an active API key.
func (w *WebApp) UserEvent(c *fiber.Ctx) error {
	var req models.UserEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Malformed request body", nil)
	}

	wallet := utils.NormalizeWallet(req.WalletAddress)
	if !utils.IsValidWallet(wallet) {
		return utils.SendBadRequest(c, "Invalid wallet address", map[string]string{
			"walletAddress": "must match 0x followed by 40 hex characters",
		})
	}

	receipt, err := w.Points.Apply(c.Context(), points.Input{
		WalletAddress:  wallet,
		Event:          points.Kind(req.Event),
		Platform:       points.Platform(req.Platform),
		Amount:         req.Amount,
		AdditionalData: req.AdditionalData,
		Name:           req.Name,
		Email:          req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, points.ErrUnknownEvent):
			return utils.SendBadRequest(c, "Unknown event type", map[string]string{"event": req.Event})
		case errors.Is(err, points.ErrUnknownPlatform):
			return utils.SendBadRequest(c, "Unknown platform", map[string]string{"platform": req.Platform})
		case errors.Is(err, points.ErrAmountRequired):
			return utils.SendBadRequest(c, "Event requires an amount", map[string]string{"amount": "required"})
		case errors.Is(err, points.ErrAmountForbidden):
			return utils.SendBadRequest(c, "Event does not accept an amount", map[string]string{"amount": "not allowed"})
		}
		slog.Error("Point event failed",
			slog.String("wallet", wallet),
			slog.String("event", req.Event),
			slog.String("error", err.Error()),
			slog.String("type", "web"))
		return utils.SendInternalServerError(c, "Could not record event")
	}

	return utils.SendSuccess(c, fiber.Map{
		"userId":       receipt.UserID,
		"wallet":       receipt.Wallet,
		"pointsEarned": receipt.PointsEarned,
		"totalPoints":  receipt.TotalPoints,
	}, "Event recorded")
}
