package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/NestcoinCo/bren/backend/middleware"
	"github.com/NestcoinCo/bren/bren/database/repositories"
	"github.com/NestcoinCo/bren/bren/dispatch"
	"github.com/NestcoinCo/bren/bren/points"
	"github.com/NestcoinCo/bren/bren/services"
	"github.com/NestcoinCo/bren/bren/tipping"
)

// SlackDirectory resolves Slack user IDs to usernames.
type SlackDirectory interface {
	Username(ctx context.Context, userID string) (string, error)
}

// Archiver stores raw webhook payloads for replay. Optional; nil disables
// archiving.
type Archiver interface {
	Archive(ctx context.Context, source, eventID string, payload []byte) (string, error)
}

// TipProcessor drives one tip through the ingestion state machine.
type TipProcessor interface {
	Process(ctx context.Context, tip tipping.Tip) (tipping.Result, error)
}

// PointsProcessor validates and applies declared point events.
type PointsProcessor interface {
	Apply(ctx context.Context, in points.Input) (points.Receipt, error)
}

// WebApp represents the web application with all dependencies
type WebApp struct {
	Users       repositories.UserRepository
	Events      repositories.PointEventRepository
	SlackUsers  repositories.SlackUserRepository
	Allowance   *tipping.Ledger
	Slack       SlackDirectory
	SlackTips   TipProcessor
	CastTips    TipProcessor
	Points      PointsProcessor
	Leaderboard *services.LeaderboardService
	Dispatcher  *dispatch.Dispatcher
	Worker      *dispatch.Worker
	Archive     Archiver
	Auth        *middleware.APIKeyAuth
	BotUserID   string
	Version     string
}

// SetupRoutes registers all endpoints on the app.
func (w *WebApp) SetupRoutes(app *fiber.App) {
	app.Get("/health", w.Health)

	api := app.Group("/api")
	api.Get("/createUser-db-wallet", middleware.APIRateLimit(), w.CreateUserWithWallet)
	api.Get("/points/:walletAddress", middleware.APIRateLimit(), w.GetPoints)
	api.Get("/leaderboard", middleware.APIRateLimit(), w.GetLeaderboard)
	api.Get("/allowance/:username", middleware.APIRateLimit(), w.GetAllowance)
	api.Post("/processSlackTip", middleware.WebhookRateLimit(), w.ProcessSlackTip)
	api.Post("/slackWebhook", middleware.WebhookRateLimit(), w.SlackWebhook)
	api.Post("/newWebHook", middleware.WebhookRateLimit(), w.FarcasterWebhook)
	api.Post("/user-event", middleware.WebhookRateLimit(), w.Auth.Require(), w.UserEvent)
}
