package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Transaction is one accepted Farcaster tip, keyed by the cast hash that
// triggered it. The unique constraint on cast_hash anchors idempotency.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID         int64     `bun:"id,pk,autoincrement"`
	FromUserID int64     `bun:"from_user_id,notnull"`
	ToUserID   int64     `bun:"to_user_id,notnull"`
	Amount     int64     `bun:"amount,notnull"`
	CastHash   string    `bun:"cast_hash,notnull,unique"`
	Text       string    `bun:"text"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// SlackTransaction is one accepted Slack tip, keyed by the Slack message
// timestamp. Same idempotency anchor as Transaction, per platform.
type SlackTransaction struct {
	bun.BaseModel `bun:"table:slack_transactions,alias:st"`

	ID          int64     `bun:"id,pk,autoincrement"`
	FromUserID  int64     `bun:"from_user_id,notnull"`
	ToUserID    int64     `bun:"to_user_id,notnull"`
	Amount      int64     `bun:"amount,notnull"`
	MessageID   string    `bun:"message_id,notnull,unique"`
	ChannelID   string    `bun:"channel_id,notnull"`
	ChannelName string    `bun:"channel_name,notnull"`
	Text        string    `bun:"text"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
