package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/NestcoinCo/bren/bren"
	"github.com/NestcoinCo/bren/bren/database"
	"github.com/NestcoinCo/bren/bren/logger"
	"github.com/NestcoinCo/bren/bren/migration"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	slog.SetDefault(slog.New(logger.NewHandler("bren-migrate")))

	cfg, err := bren.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

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

	client, mongoDB, err := migration.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		slog.Error("Failed to connect to mongo", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	migrator := migration.NewMigrator(db.BunDB(), mongoDB)
	if err := migrator.MigrateAll(ctx); err != nil {
		slog.Error("Migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Migration completed successfully")
}
