package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/NestcoinCo/bren/backend/models"
	"github.com/NestcoinCo/bren/backend/utils"
	dbmodels "github.com/NestcoinCo/bren/bren/database/models"
	"github.com/NestcoinCo/bren/bren/database/repositories"
	"github.com/NestcoinCo/bren/bren/tipping"
)

// webhookAckDelay gives the worker a head start before the webhook is
// acknowledged, so an immediate duplicate delivery hits the dedupe path.
const webhookAckDelay = 200 * time.Millisecond

// FarcasterWebhook receives cast.created deliveries from Neynar, classifies
// them as invite or tip commands, and queues the matching branch on the
// worker.
func (w *WebApp) FarcasterWebhook(c *fiber.Ctx) error {
	var payload models.NeynarWebhook
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendBadRequest(c, "Malformed webhook payload", nil)
	}

	cast := payload.Data
	if cast.Hash == "" || cast.Author.FID == 0 {
		return utils.SendBadRequest(c, "Missing cast hash or author", nil)
	}

	if w.Archive != nil {
		raw := append([]byte(nil), c.Body()...)
		hash := cast.Hash
		w.Worker.Submit("archive-cast", func(ctx context.Context) {
			if _, err := w.Archive.Archive(ctx, "farcaster", hash, raw); err != nil {
				slog.Warn("Failed to archive cast payload", slog.String("error", err.Error()))
			}
		})
	}

	switch {
	case tipping.IsInviteCast(cast.Text):
		w.Worker.Submit("cast-invite-"+cast.Hash, func(ctx context.Context) {
			w.handleInviteCast(ctx, cast)
		})
	case tipping.IsTipCast(cast.Text):
		w.Worker.Submit("cast-tip-"+cast.Hash, func(ctx context.Context) {
			w.handleTipCast(ctx, cast)
		})
	default:
		return c.SendStatus(fiber.StatusOK)
	}

	time.Sleep(webhookAckDelay)
	return c.SendStatus(fiber.StatusOK)
}

func (w *WebApp) handleTipCast(ctx context.Context, cast models.NeynarCast) {
	amount, ok := tipping.ParseCastTipAmount(cast.Text)
	if !ok {
		slog.Debug("Ignoring tip cast without amount", slog.String("hash", cast.Hash))
		return
	}

	var recipient *models.NeynarProfile
	for i := range cast.MentionedProfiles {
		if cast.MentionedProfiles[i].FID != cast.Author.FID {
			recipient = &cast.MentionedProfiles[i]
			break
		}
	}
	if recipient == nil {
		slog.Debug("Ignoring tip cast without recipient mention", slog.String("hash", cast.Hash))
		return
	}

	tip := tipping.Tip{
		EventID:   cast.Hash,
		Sender:    tipping.Party{Username: cast.Author.Username, PlatformID: strconv.FormatInt(cast.Author.FID, 10)},
		Recipient: tipping.Party{Username: recipient.Username, PlatformID: strconv.FormatInt(recipient.FID, 10)},
		Amount:    amount,
		Text:      cast.Text,
	}

	if _, err := w.CastTips.Process(ctx, tip); err != nil {
		slog.Error("Cast tip processing failed",
			slog.String("hash", cast.Hash),
			slog.String("error", err.Error()))
	}
}

// handleInviteCast lets a whitelisted user with remaining invites grant
// INVITED status to every account mentioned in the cast.
func (w *WebApp) handleInviteCast(ctx context.Context, cast models.NeynarCast) {
	detail, err := w.Users.GetDetailByFID(ctx, cast.Author.FID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			slog.Error("Invite lookup failed",
				slog.String("hash", cast.Hash),
				slog.String("error", err.Error()))
			return
		}
		detail = nil
	}

	if detail == nil || detail.Type != dbmodels.UserTypeWhitelisted || detail.InvitesLeft <= 0 {
		if err := w.Dispatcher.ReplyNotEligible(ctx, cast.Hash,
			fmt.Sprintf("Sorry @%s, you have no invites available.", cast.Author.Username),
			"no invites available"); err != nil {
			slog.Warn("Failed to post not-eligible reply", slog.String("error", err.Error()))
		}
		return
	}

	invited := 0
	left := detail.InvitesLeft
	for _, profile := range cast.MentionedProfiles {
		if profile.FID == cast.Author.FID || left <= 0 {
			continue
		}
		if err := w.Users.CreateInvitedDetail(ctx, profile.FID, profile.Username); err != nil {
			slog.Error("Failed to record invite",
				slog.Int64("fid", profile.FID),
				slog.String("error", err.Error()))
			continue
		}
		if err := w.Users.DecrementInvites(ctx, detail.ID); err != nil {
			slog.Warn("Invite decrement failed", slog.String("error", err.Error()))
			break
		}
		invited++
		left--
	}

	if invited == 0 {
		return
	}
	if err := w.Dispatcher.ReplyInvite(ctx, cast.Hash,
		fmt.Sprintf("@%s invited %d user(s). %d invite(s) left.", cast.Author.Username, invited, left),
		cast.Author.Username, left); err != nil {
		slog.Warn("Failed to post invite reply", slog.String("error", err.Error()))
	}
}
