package repositories

import (
	"context"

	"github.com/uptrace/bun"
)

// RankedUser is one leaderboard row: running totals joined with the user's
// display identity for the platform.
type RankedUser struct {
	UserID            int64  `bun:"user_id" json:"userId"`
	Username          string `bun:"username" json:"username"`
	TipsReceived      int64  `bun:"tips_received" json:"tipsReceived"`
	TipsSent          int64  `bun:"tips_sent" json:"tipsSent"`
	TipsReceivedCount int64  `bun:"tips_received_count" json:"tipsReceivedCount"`
	TipsSentCount     int64  `bun:"tips_sent_count" json:"tipsSentCount"`
}

type RankingRepository interface {
	FarcasterRankings(ctx context.Context) ([]RankedUser, error)
	SlackRankings(ctx context.Context) ([]RankedUser, error)
}

type rankingRepository struct {
	db *bun.DB
}

func NewRankingRepository(db *bun.DB) RankingRepository {
	return &rankingRepository{db: db}
}

func (r *rankingRepository) FarcasterRankings(ctx context.Context) ([]RankedUser, error) {
	var ranked []RankedUser
	err := r.db.NewSelect().
		TableExpr("user_rankings AS ur").
		ColumnExpr("ur.user_id, COALESCE(fd.username, u.wallet_address) AS username").
		ColumnExpr("ur.tips_received, ur.tips_sent, ur.tips_received_count, ur.tips_sent_count").
		Join("JOIN users AS u ON u.id = ur.user_id").
		Join("LEFT JOIN farcaster_details AS fd ON fd.user_id = ur.user_id").
		OrderExpr("ur.tips_received DESC").
		Scan(ctx, &ranked)
	return ranked, err
}

func (r *rankingRepository) SlackRankings(ctx context.Context) ([]RankedUser, error) {
	var ranked []RankedUser
	err := r.db.NewSelect().
		TableExpr("slack_user_rankings AS sur").
		ColumnExpr("sur.user_id, su.slack_username AS username").
		ColumnExpr("sur.tips_received, sur.tips_sent, sur.tips_received_count, sur.tips_sent_count").
		Join("JOIN slack_users AS su ON su.id = sur.user_id").
		OrderExpr("sur.tips_received DESC").
		Scan(ctx, &ranked)
	return ranked, err
}
