package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/NestcoinCo/bren/backend/models"
	"github.com/NestcoinCo/bren/backend/utils"
	"github.com/NestcoinCo/bren/bren/tipping"
)

// ProcessSlackTip accepts a fully-resolved tip from the Slack workflow
// integration and processes it synchronously. Idempotent on messageId.
func (w *WebApp) ProcessSlackTip(c *fiber.Ctx) error {
	var req models.SlackTipRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Malformed request body", nil)
	}

	details := map[string]string{}
	if req.FromUsername == "" {
		details["fromUsername"] = "required"
	}
	if req.FromUserID == "" {
		details["fromUserId"] = "required"
	}
	if req.ToUsername == "" {
		details["toUsername"] = "required"
	}
	if req.MessageID == "" {
		details["messageId"] = "required"
	}
	if req.ChannelID == "" {
		details["channelId"] = "required"
	}
	if req.ChannelName == "" {
		details["channelName"] = "required"
	}
	if req.Amount <= 0 {
		details["amount"] = "must be a positive integer"
	}
	if len(details) > 0 {
		return utils.SendBadRequest(c, "Missing or invalid fields", details)
	}

	tip := tipping.Tip{
		EventID:     req.MessageID,
		Sender:      tipping.Party{Username: req.FromUsername, PlatformID: req.FromUserID},
		Recipient:   tipping.Party{Username: req.ToUsername},
		Amount:      req.Amount,
		ChannelID:   req.ChannelID,
		ChannelName: req.ChannelName,
	}

	res, err := w.SlackTips.Process(c.Context(), tip)
	if err != nil {
		slog.Error("Slack tip processing failed",
			slog.String("message_id", req.MessageID),
			slog.String("error", err.Error()),
			slog.String("type", "web"))
		return utils.SendInternalServerError(c, "Could not process tip")
	}

	remaining := res.Remaining
	switch res.Status {
	case tipping.StatusCommitted:
		return utils.SendSuccess(c, models.TipOutcome{
			Status:    string(res.Status),
			Remaining: &remaining,
		}, "Tip processed")
	case tipping.StatusDuplicate:
		return utils.SendSuccess(c, models.TipOutcome{Status: string(res.Status)},
			"Tip already processed")
	case tipping.StatusAllowanceExceeded:
		return utils.SendJSON(c, fiber.StatusBadRequest, models.TipOutcome{
			Status:    string(res.Status),
			Remaining: &remaining,
		})
	default:
		return utils.SendJSON(c, fiber.StatusBadRequest, models.TipOutcome{
			Status: string(res.Status),
		})
	}
}

// SlackWebhook receives Slack Events API deliveries. url_verification is
// answered synchronously; message events are acknowledged immediately and
// processed on the worker so Slack never retries on slow commits.
func (w *WebApp) SlackWebhook(c *fiber.Ctx) error {
	var payload models.SlackEventPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendBadRequest(c, "Malformed event payload", nil)
	}

	if payload.Type == "url_verification" {
		return c.JSON(fiber.Map{"challenge": payload.Challenge})
	}

	if payload.Type != "event_callback" || payload.Event == nil {
		return c.SendStatus(fiber.StatusOK)
	}

	ev := *payload.Event
	if w.Archive != nil {
		raw := append([]byte(nil), c.Body()...)
		w.Worker.Submit("archive-slack-event", func(ctx context.Context) {
			if _, err := w.Archive.Archive(ctx, "slack", ev.TS, raw); err != nil {
				slog.Warn("Failed to archive slack payload", slog.String("error", err.Error()))
			}
		})
	}

	w.Worker.Submit("slack-event-"+ev.TS, func(ctx context.Context) {
		w.handleSlackMessage(ctx, ev)
	})

	return c.SendStatus(fiber.StatusOK)
}

func (w *WebApp) handleSlackMessage(ctx context.Context, ev models.SlackEvent) {
	if ev.Type != "message" || ev.BotID != "" || ev.User == w.BotUserID {
		return
	}
	if !tipping.IsBotMentioned(ev.Text, w.BotUserID) {
		return
	}

	cmd, ok := tipping.ParseTipCommand(ev.Text)
	if !ok {
		slog.Debug("Ignoring unparseable tip message", slog.String("ts", ev.TS))
		return
	}

	// The mention list includes the bot itself; the recipient is the first
	// non-bot mention. A sender mentioning themselves still goes through so
	// the processor can reject it and DM the reason.
	recipientID := ""
	for _, id := range []string{cmd.SenderID, cmd.RecipientID} {
		if id != w.BotUserID {
			recipientID = id
			break
		}
	}
	if recipientID == "" {
		return
	}

	senderName, err := w.Slack.Username(ctx, ev.User)
	if err != nil {
		slog.Error("Failed to resolve sender username",
			slog.String("user_id", ev.User),
			slog.String("error", err.Error()))
		return
	}
	recipientName, err := w.Slack.Username(ctx, recipientID)
	if err != nil {
		slog.Error("Failed to resolve recipient username",
			slog.String("user_id", recipientID),
			slog.String("error", err.Error()))
		return
	}

	tip := tipping.Tip{
		EventID:   ev.TS,
		Sender:    tipping.Party{Username: senderName, PlatformID: ev.User},
		Recipient: tipping.Party{Username: recipientName, PlatformID: recipientID},
		Amount:    cmd.Amount,
		ChannelID: ev.Channel,
		Text:      ev.Text,
	}

	if _, err := w.SlackTips.Process(ctx, tip); err != nil {
		slog.Error("Slack tip processing failed",
			slog.String("ts", ev.TS),
			slog.String("error", err.Error()))
	}
}
