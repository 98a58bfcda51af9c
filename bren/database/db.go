package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"log/slog"

	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/NestcoinCo/bren/bren/logger"
	"github.com/uptrace/bun"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	// Probe reachability before handing off to the pool so startup fails fast
	// with a clear error instead of a pool timeout.
	var conn net.Conn
	var err error

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool, bunDB: newBunDB(pool)}, nil
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func newBunDB(pool *pgxpool.Pool) *bun.DB {
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pool.Config().ConnConfig.User,
		pool.Config().ConnConfig.Password,
		pool.Config().ConnConfig.Host,
		pool.Config().ConnConfig.Port,
		pool.Config().ConnConfig.Database,
		sslMode,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) Close() {
	if db.bunDB != nil {
		db.bunDB.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// InitializeSchema creates all required tables and the unique indexes the
// ingestion pipeline relies on for idempotency.
func (db *DB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.FarcasterDetail)(nil),
		(*models.SlackUser)(nil),
		(*models.PointEvent)(nil),
		(*models.Transaction)(nil),
		(*models.SlackTransaction)(nil),
		(*models.WeeklyPoints)(nil),
		(*models.SlackWeeklyPoints)(nil),
		(*models.UserRankings)(nil),
		(*models.SlackUserRankings)(nil),
		(*models.BotReply)(nil),
		(*models.APICredential)(nil),
	}

	for _, table := range tables {
		if _, err := db.bunDB.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", table, err)
		}
	}

	// The unique constraints below are the correctness mechanism for duplicate
	// webhook deliveries; the pre-checks in the processors are only fast paths.
	indexes := []struct {
		name  string
		table string
		expr  string
	}{
		{"idx_users_wallet_address", "users", "(wallet_address)"},
		{"idx_farcaster_details_fid", "farcaster_details", "(fid)"},
		{"idx_slack_users_username", "slack_users", "(slack_username)"},
		{"idx_transactions_cast_hash", "transactions", "(cast_hash)"},
		{"idx_slack_transactions_message_id", "slack_transactions", "(message_id)"},
		{"idx_weekly_points_user_week_platform", "weekly_points", "(user_id, week_start, platform)"},
		{"idx_slack_weekly_points_user_week", "slack_weekly_points", "(user_id, week_start)"},
		{"idx_user_rankings_user", "user_rankings", "(user_id)"},
		{"idx_slack_user_rankings_user", "slack_user_rankings", "(user_id)"},
		{"idx_bot_replies_user_cast_hash", "bot_replies", "(user_cast_hash)"},
		{"idx_api_credentials_key", "api_credentials", "(api_key)"},
	}

	for _, idx := range indexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s %s", idx.name, idx.table, idx.expr)
		start := time.Now()
		_, err := db.bunDB.ExecContext(ctx, stmt)
		logger.LogQuery(stmt, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	slog.Info("Database schema initialized",
		slog.String("type", "db"),
		slog.Int("tables", len(tables)),
		slog.Int("indexes", len(indexes)))

	return nil
}
