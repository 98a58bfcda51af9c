package migration

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoSlackUser is a user document from the legacy tip bot.
type MongoSlackUser struct {
	ID        primitive.ObjectID `bson:"_id"`
	Username  string             `bson:"username"`
	SlackID   string             `bson:"slack_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

// MongoTip is a tip document from the legacy tip bot.
type MongoTip struct {
	ID           primitive.ObjectID `bson:"_id"`
	FromUsername string             `bson:"from_username"`
	ToUsername   string             `bson:"to_username"`
	Amount       int64              `bson:"amount"`
	MessageID    string             `bson:"message_id"`
	ChannelID    string             `bson:"channel_id"`
	ChannelName  string             `bson:"channel_name"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// TableStats tracks per-table progress for one migration run.
type TableStats struct {
	Read     int64
	Inserted int64
	Skipped  int64
	Failed   int64
}

// MigrationStats aggregates the whole run.
type MigrationStats struct {
	Tables    map[string]*TableStats
	StartTime time.Time
}

func (s *MigrationStats) table(name string) *TableStats {
	t, ok := s.Tables[name]
	if !ok {
		t = &TableStats{}
		s.Tables[name] = t
	}
	return t
}
