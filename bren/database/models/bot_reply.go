package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BotReply enforces at-most-one bot reply per originating cast via the unique
// constraint on user_cast_hash. A row with an empty bot_cast_hash is a claim
// whose outbound post is still in flight.
type BotReply struct {
	bun.BaseModel `bun:"table:bot_replies,alias:br"`

	ID           int64     `bun:"id,pk,autoincrement"`
	BotCastHash  string    `bun:"bot_cast_hash"`
	UserCastHash string    `bun:"user_cast_hash,notnull,unique"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
