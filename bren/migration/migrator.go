package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/NestcoinCo/bren/bren/logger"
)

// Migrator imports users and tips from the legacy Mongo tip bot into
// Postgres. The import is idempotent: both inserts rely on the unique
// constraints (slack_username, message_id) and skip rows that already exist,
// so a partial run can simply be rerun.
type Migrator struct {
	pgDB      *bun.DB
	mongoDB   *mongo.Database
	batchSize int
	stats     MigrationStats

	collNames map[string]string
}

func NewMigrator(pgDB *bun.DB, mongoDB *mongo.Database) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		mongoDB:   mongoDB,
		batchSize: 1000,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
		collNames: map[string]string{
			"users": "users",
			"tips":  "tips",
		},
	}
}

// Connect opens the legacy Mongo database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, client.Database(database), nil
}

// MigrateAll runs the full import: users first, then tips, then the derived
// weekly and ranking aggregates rebuilt from the imported tips.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	if err := m.migrateUsers(ctx); err != nil {
		return fmt.Errorf("users: %w", err)
	}
	if err := m.migrateTips(ctx); err != nil {
		return fmt.Errorf("tips: %w", err)
	}
	if err := m.rebuildAggregates(ctx); err != nil {
		return fmt.Errorf("aggregates: %w", err)
	}
	m.logStats()
	return nil
}

func (m *Migrator) migrateUsers(ctx context.Context) error {
	stats := m.stats.table("slack_users")
	col := m.mongoDB.Collection(m.collNames["users"])

	cur, err := col.Find(ctx, bson.D{})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	batch := make([]models.SlackUser, 0, m.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (slack_username) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			stats.Inserted += n
			stats.Skipped += int64(len(batch)) - n
		}
		batch = batch[:0]
		return nil
	}

	for cur.Next(ctx) {
		var mu MongoSlackUser
		if err := cur.Decode(&mu); err != nil {
			stats.Failed++
			logger.LogError("Skipping undecodable user document", err)
			continue
		}
		stats.Read++
		if mu.Username == "" {
			stats.Skipped++
			continue
		}
		createdAt := mu.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		batch = append(batch, models.SlackUser{
			SlackUsername: mu.Username,
			DisplayName:   mu.Username,
			CreatedAt:     createdAt,
		})
		if len(batch) >= m.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	return flush()
}

func (m *Migrator) migrateTips(ctx context.Context) error {
	stats := m.stats.table("slack_transactions")
	col := m.mongoDB.Collection(m.collNames["tips"])

	cur, err := col.Find(ctx, bson.D{})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	userIDs, err := m.userIDsByUsername(ctx)
	if err != nil {
		return err
	}

	batch := make([]models.SlackTransaction, 0, m.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		res, err := m.pgDB.NewInsert().
			Model(&batch).
			On("CONFLICT (message_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			stats.Inserted += n
			stats.Skipped += int64(len(batch)) - n
		}
		batch = batch[:0]
		return nil
	}

	for cur.Next(ctx) {
		var mt MongoTip
		if err := cur.Decode(&mt); err != nil {
			stats.Failed++
			logger.LogError("Skipping undecodable tip document", err)
			continue
		}
		stats.Read++

		fromID, fromOK := userIDs[mt.FromUsername]
		toID, toOK := userIDs[mt.ToUsername]
		if !fromOK || !toOK || mt.Amount <= 0 || mt.MessageID == "" {
			stats.Skipped++
			continue
		}
		createdAt := mt.CreatedAt
		if createdAt.IsZero() {
			createdAt = mt.ID.Timestamp()
		}
		batch = append(batch, models.SlackTransaction{
			FromUserID:  fromID,
			ToUserID:    toID,
			Amount:      mt.Amount,
			MessageID:   mt.MessageID,
			ChannelID:   mt.ChannelID,
			ChannelName: mt.ChannelName,
			CreatedAt:   createdAt,
		})
		if len(batch) >= m.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	return flush()
}

func (m *Migrator) userIDsByUsername(ctx context.Context) (map[string]int64, error) {
	var users []models.SlackUser
	if err := m.pgDB.NewSelect().Model(&users).Scan(ctx); err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(users))
	for _, u := range users {
		ids[u.SlackUsername] = u.ID
	}
	return ids, nil
}

// rebuildAggregates recomputes slack_weekly_points and slack_user_rankings
// from slack_transactions. Imported history and already-live rows land in the
// same aggregates, so both tables are rebuilt wholesale rather than
// incremented per imported row.
func (m *Migrator) rebuildAggregates(ctx context.Context) error {
	return m.pgDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM slack_weekly_points`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO slack_weekly_points (user_id, week_start, points_given)
			SELECT from_user_id,
			       date_trunc('week', created_at + interval '1 day') - interval '1 day',
			       SUM(amount)
			FROM slack_transactions
			GROUP BY 1, 2`); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM slack_user_rankings`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO slack_user_rankings
				(user_id, tips_received, tips_sent, tips_received_count, tips_sent_count, updated_at)
			SELECT user_id,
			       SUM(received), SUM(sent), SUM(received_n), SUM(sent_n), NOW()
			FROM (
				SELECT to_user_id AS user_id, amount AS received, 0 AS sent, 1 AS received_n, 0 AS sent_n
				FROM slack_transactions
				UNION ALL
				SELECT from_user_id, 0, amount, 0, 1
				FROM slack_transactions
			) AS flows
			GROUP BY user_id`); err != nil {
			return err
		}
		return nil
	})
}

func (m *Migrator) logStats() {
	elapsed := time.Since(m.stats.StartTime)
	for name, t := range m.stats.Tables {
		logger.LogSystem("Migration table complete",
			slog.String("table", name),
			slog.Int64("read", t.Read),
			slog.Int64("inserted", t.Inserted),
			slog.Int64("skipped", t.Skipped),
			slog.Int64("failed", t.Failed))
	}
	logger.LogSystem("Migration finished", slog.Duration("elapsed", elapsed))
}
