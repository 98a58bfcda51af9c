package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/NestcoinCo/bren/backend/handlers"
	"github.com/NestcoinCo/bren/backend/middleware"
	"github.com/NestcoinCo/bren/bren"
	"github.com/NestcoinCo/bren/bren/clients/neynar"
	slackclient "github.com/NestcoinCo/bren/bren/clients/slack"
	"github.com/NestcoinCo/bren/bren/database"
	"github.com/NestcoinCo/bren/bren/database/repositories"
	"github.com/NestcoinCo/bren/bren/dispatch"
	"github.com/NestcoinCo/bren/bren/logger"
	"github.com/NestcoinCo/bren/bren/points"
	"github.com/NestcoinCo/bren/bren/services"
	"github.com/NestcoinCo/bren/bren/tipping"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	slog.SetDefault(slog.New(logger.NewHandler("bren")))

	slog.Info("Starting bren API",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("type", "sys"))

	cfg, err := bren.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...", slog.String("type", "db"))
	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	bunDB := db.BunDB()
	txManager := database.NewTxManager(bunDB)

	users := repositories.NewUserRepository(bunDB)
	events := repositories.NewPointEventRepository(bunDB)
	slackUsers := repositories.NewSlackUserRepository(bunDB)
	replies := repositories.NewBotReplyRepository(bunDB)
	rankings := repositories.NewRankingRepository(bunDB)
	credentials := repositories.NewCredentialRepository(bunDB)
	slackStore := repositories.NewSlackTipStore(bunDB, txManager)
	castStore := repositories.NewFarcasterTipStore(bunDB, txManager)
	pointsStore := repositories.NewPointsStore(bunDB, txManager)

	slackClient, err := slackclient.New(cfg.Slack.BotToken)
	if err != nil {
		slog.Error("Failed to build slack client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	neynarClient := neynar.New(cfg.Neynar.APIKey, cfg.Neynar.SignerUUID,
		neynar.WithBaseURL(cfg.Neynar.BaseURL))

	worker := dispatch.NewWorker(30 * time.Second)
	dispatcher := dispatch.NewDispatcher(replies, neynarClient, cfg.Neynar.FramesURL)

	allowance := int64(cfg.Slack.WeeklyAllowance)
	slackTips := tipping.NewProcessor(tipping.PlatformSlack, slackStore,
		dispatch.NewSlackNotifier(slackClient), worker, tipping.SundayLocal, allowance)
	castTips := tipping.NewProcessor(tipping.PlatformFarcaster, castStore,
		dispatch.NewFarcasterNotifier(dispatcher), worker, tipping.MondayUTC, allowance)
	pointsProcessor := points.NewProcessor(pointsStore, tipping.MondayUTC)

	var archive handlers.Archiver
	if cfg.Spaces.Key != "" {
		spaces, err := services.NewArchiveService(cfg.Spaces.Key, cfg.Spaces.Secret,
			cfg.Spaces.Region, cfg.Spaces.Bucket, cfg.Spaces.ArchiveRoot)
		if err != nil {
			slog.Error("Failed to build archive service", slog.String("error", err.Error()))
			os.Exit(1)
		}
		archive = spaces
	}

	webApp := &handlers.WebApp{
		Users:       users,
		Events:      events,
		SlackUsers:  slackUsers,
		Allowance:   tipping.NewLedger(allowance, tipping.SundayLocal, slackStore),
		Slack:       slackClient,
		SlackTips:   slackTips,
		CastTips:    castTips,
		Points:      pointsProcessor,
		Leaderboard: services.NewLeaderboardService(rankings),
		Dispatcher:  dispatcher,
		Worker:      worker,
		Archive:     archive,
		Auth:        middleware.NewAPIKeyAuth(credentials),
		BotUserID:   cfg.Slack.BotUserID,
		Version:     version,
	}

	app := fiber.New(fiber.Config{
		AppName:      "bren API",
		ServerHeader: "bren",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Web.AllowOrigins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,x-api-key",
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp.SetupRoutes(app)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting server", slog.String("address", address), slog.String("type", "web"))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Server stopped", slog.String("error", err.Error()))
			sig <- syscall.SIGTERM
		}
	}()

	<-sig
	slog.Info("Shutting down...", slog.String("type", "sys"))

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if err := worker.Shutdown(15 * time.Second); err != nil {
		slog.Error("Worker shutdown timed out", slog.String("error", err.Error()))
	}
	slog.Info("Goodbye", slog.String("type", "sys"))
}
