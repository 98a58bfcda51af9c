package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/NestcoinCo/bren/backend/models"
	"github.com/NestcoinCo/bren/backend/utils"
	"github.com/NestcoinCo/bren/bren/database/repositories"
)

// CreateUserWithWallet registers a whitelisted user from a wallet address and
// Farcaster ID. The call is idempotent on the wallet: an existing user is
// returned rather than recreated.
func (w *WebApp) CreateUserWithWallet(c *fiber.Ctx) error {
	wallet := utils.NormalizeWallet(c.Query("walletAddress"))
	if !utils.IsValidWallet(wallet) {
		return utils.SendBadRequest(c, "Invalid wallet address", map[string]string{
			"walletAddress": "must match 0x followed by 40 hex characters",
		})
	}

	fid, err := strconv.ParseInt(c.Query("fid"), 10, 64)
	if err != nil || fid <= 0 {
		return utils.SendBadRequest(c, "Invalid fid", map[string]string{
			"fid": "must be a positive integer",
		})
	}

	if existing, err := w.Users.GetByWallet(c.Context(), wallet); err == nil {
		return utils.SendSuccess(c, models.CreatedUser{
			UserID:        existing.ID,
			WalletAddress: existing.WalletAddress,
			Created:       false,
		}, "User already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return utils.SendInternalServerError(c, "Could not look up user")
	}

	user, err := w.Users.CreateWhitelisted(c.Context(), wallet, fid)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			// Lost a create race, or the fid is already bound elsewhere.
			if existing, lookupErr := w.Users.GetByWallet(c.Context(), wallet); lookupErr == nil {
				return utils.SendSuccess(c, models.CreatedUser{
					UserID:        existing.ID,
					WalletAddress: existing.WalletAddress,
					Created:       false,
				}, "User already exists")
			}
			return utils.SendConflict(c, "fid is already registered", nil)
		}
		slog.Error("Failed to create user",
			slog.String("wallet", wallet),
			slog.String("error", err.Error()),
			slog.String("type", "web"))
		return utils.SendInternalServerError(c, "Could not create user")
	}

	// Allowance grant is best-effort and never surfaced to the caller.
	userID := user.ID
	w.Worker.Submit("allowance-grant", func(ctx context.Context) {
		if err := w.Users.SetAllowanceGiven(ctx, userID); err != nil {
			slog.Error("Failed to grant allowance",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()))
			return
		}
		slog.Info("Allowance granted", slog.Int64("user_id", userID))
	})

	return utils.SendCreated(c, models.CreatedUser{
		UserID:        user.ID,
		WalletAddress: user.WalletAddress,
		Created:       true,
	}, "User created")
}

// GetPoints returns the itemized point events and lifetime total for a
// wallet.
func (w *WebApp) GetPoints(c *fiber.Ctx) error {
	wallet := utils.NormalizeWallet(c.Params("walletAddress"))
	if !utils.IsValidWallet(wallet) {
		return utils.SendBadRequest(c, "Invalid wallet address", nil)
	}

	user, err := w.Users.GetByWallet(c.Context(), wallet)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.SendNotFound(c, "Unknown wallet")
		}
		return utils.SendInternalServerError(c, "Could not look up points")
	}

	events, err := w.Events.ListByUser(c.Context(), user.ID)
	if err != nil {
		return utils.SendInternalServerError(c, "Could not load point events")
	}
	total, err := w.Events.TotalForUser(c.Context(), user.ID)
	if err != nil {
		return utils.SendInternalServerError(c, "Could not load point total")
	}

	summary := models.PointsSummary{
		WalletAddress: user.WalletAddress,
		TotalPoints:   total,
		Events:        make([]models.PointEvent, 0, len(events)),
	}
	for _, ev := range events {
		summary.Events = append(summary.Events, models.PointEvent{
			Event:     ev.Event,
			Platform:  ev.Platform,
			Points:    ev.Points,
			CreatedAt: ev.CreatedAt,
		})
	}

	return utils.SendSuccess(c, summary, "")
}
