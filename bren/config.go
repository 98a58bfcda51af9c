package bren

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig    `toml:"log"`
	Web    WebConfig    `toml:"web"`
	DB     DBConfig     `toml:"db"`
	Slack  SlackConfig  `toml:"slack"`
	Neynar NeynarConfig `toml:"neynar"`
	Spaces SpacesConfig `toml:"spaces"`
	Mongo  MongoConfig  `toml:"mongo"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	AllowOrigins []string `toml:"allow_origins"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type SlackConfig struct {
	BotToken        string `toml:"bot_token"`
	BotUserID       string `toml:"bot_user_id"`
	WeeklyAllowance int    `toml:"weekly_allowance"`
}

type NeynarConfig struct {
	APIKey     string `toml:"api_key"`
	SignerUUID string `toml:"signer_uuid"`
	BaseURL    string `toml:"base_url"`
	FramesURL  string `toml:"frames_url"`
}

type SpacesConfig struct {
	Key         string `toml:"key"`
	Secret      string `toml:"secret"`
	Region      string `toml:"region"`
	Bucket      string `toml:"bucket"`
	ArchiveRoot string `toml:"archive_root"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}
