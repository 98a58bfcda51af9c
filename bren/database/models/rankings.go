package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserRankings holds running per-user totals for the leaderboard. Totals are
// incremented alongside each accepted event in the same unit of work and are
// never recomputed from scratch in the request path.
type UserRankings struct {
	bun.BaseModel `bun:"table:user_rankings,alias:ur"`

	ID                int64     `bun:"id,pk,autoincrement"`
	UserID            int64     `bun:"user_id,notnull,unique"`
	TipsReceived      int64     `bun:"tips_received,notnull,default:0"`
	TipsSent          int64     `bun:"tips_sent,notnull,default:0"`
	TipsReceivedCount int64     `bun:"tips_received_count,notnull,default:0"`
	TipsSentCount     int64     `bun:"tips_sent_count,notnull,default:0"`
	UpdatedAt         time.Time `bun:"updated_at,notnull"`
}

type SlackUserRankings struct {
	bun.BaseModel `bun:"table:slack_user_rankings,alias:sur"`

	ID                int64     `bun:"id,pk,autoincrement"`
	UserID            int64     `bun:"user_id,notnull,unique"`
	TipsReceived      int64     `bun:"tips_received,notnull,default:0"`
	TipsSent          int64     `bun:"tips_sent,notnull,default:0"`
	TipsReceivedCount int64     `bun:"tips_received_count,notnull,default:0"`
	TipsSentCount     int64     `bun:"tips_sent_count,notnull,default:0"`
	UpdatedAt         time.Time `bun:"updated_at,notnull"`
}
