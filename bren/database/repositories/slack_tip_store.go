package repositories

import (
	"context"
	"time"

	"github.com/NestcoinCo/bren/bren/database"
	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/NestcoinCo/bren/bren/tipping"
	"github.com/uptrace/bun"
)

// SlackTipStore persists Slack tips. The commit path runs as one serializable
// transaction so the weekly-allowance recheck and the transaction insert
// cannot be interleaved by a concurrent tip from the same sender.
type SlackTipStore struct {
	db *bun.DB
	tm *database.TxManager
}

func NewSlackTipStore(db *bun.DB, tm *database.TxManager) *SlackTipStore {
	return &SlackTipStore{db: db, tm: tm}
}

var _ tipping.Store = (*SlackTipStore)(nil)
var _ tipping.SpendStore = (*SlackTipStore)(nil)

func (s *SlackTipStore) HasProcessed(ctx context.Context, eventID string) (bool, error) {
	return s.db.NewSelect().
		Model((*models.SlackTransaction)(nil)).
		Where("message_id = ?", eventID).
		Exists(ctx)
}

// WeeklySpend sums accepted tip amounts sent by senderKey (slack username)
// since the given week start.
func (s *SlackTipStore) WeeklySpend(ctx context.Context, senderKey string, since time.Time) (int64, error) {
	var spent int64
	err := s.db.NewSelect().
		ColumnExpr("COALESCE(SUM(st.amount), 0)").
		Model((*models.SlackTransaction)(nil)).
		Join("JOIN slack_users AS su ON su.id = st.from_user_id").
		Where("su.slack_username = ?", senderKey).
		Where("st.created_at >= ?", since).
		Scan(ctx, &spent)
	return spent, err
}

func (s *SlackTipStore) Commit(ctx context.Context, tip tipping.Tip, weekStart time.Time, cap int64) (tipping.CommitResult, error) {
	var result tipping.CommitResult

	err := s.tm.WithTransaction(ctx, database.SerializableTxOptions(), func(ctx context.Context, tx bun.Tx) error {
		fromUser, err := getOrCreateSlackUser(ctx, tx, tip.Sender.Username)
		if err != nil {
			return err
		}
		toUser, err := getOrCreateSlackUser(ctx, tx, tip.Recipient.Username)
		if err != nil {
			return err
		}

		var spent int64
		if err := tx.NewSelect().
			ColumnExpr("COALESCE(SUM(amount), 0)").
			Model((*models.SlackTransaction)(nil)).
			Where("from_user_id = ?", fromUser.ID).
			Where("created_at >= ?", weekStart).
			Scan(ctx, &spent); err != nil {
			return err
		}

		remaining, ok := tipping.CheckSpend(cap, spent, tip.Amount)
		if !ok {
			result = tipping.CommitResult{Exceeded: true, Remaining: remaining}
			return nil
		}

		txn := &models.SlackTransaction{
			FromUserID:  fromUser.ID,
			ToUserID:    toUser.ID,
			Amount:      tip.Amount,
			MessageID:   tip.EventID,
			ChannelID:   tip.ChannelID,
			ChannelName: tip.ChannelName,
			Text:        tip.Text,
			CreatedAt:   time.Now(),
		}
		if _, err := tx.NewInsert().Model(txn).Exec(ctx); err != nil {
			if IsUniqueViolation(err) {
				// Lost the race against another delivery of the same message.
				// The tx rolls back, so no aggregates were touched twice.
				result = tipping.CommitResult{Duplicate: true}
				return nil
			}
			return err
		}

		weekly := &models.SlackWeeklyPoints{
			UserID:      fromUser.ID,
			WeekStart:   weekStart,
			PointsGiven: tip.Amount,
		}
		if _, err := tx.NewInsert().
			Model(weekly).
			On("CONFLICT (user_id, week_start) DO UPDATE").
			Set("points_given = swp.points_given + EXCLUDED.points_given").
			Exec(ctx); err != nil {
			return err
		}

		if err := incrementSlackRankings(ctx, tx, fromUser.ID, 0, tip.Amount); err != nil {
			return err
		}
		if err := incrementSlackRankings(ctx, tx, toUser.ID, tip.Amount, 0); err != nil {
			return err
		}

		result = tipping.CommitResult{Remaining: remaining - tip.Amount}
		return nil
	})
	if err != nil {
		return tipping.CommitResult{}, err
	}
	return result, nil
}

func incrementSlackRankings(ctx context.Context, tx bun.IDB, userID, received, sent int64) error {
	ranking := &models.SlackUserRankings{
		UserID:       userID,
		TipsReceived: received,
		TipsSent:     sent,
		UpdatedAt:    time.Now(),
	}
	if received > 0 {
		ranking.TipsReceivedCount = 1
	}
	if sent > 0 {
		ranking.TipsSentCount = 1
	}
	_, err := tx.NewInsert().
		Model(ranking).
		On("CONFLICT (user_id) DO UPDATE").
		Set("tips_received = sur.tips_received + EXCLUDED.tips_received").
		Set("tips_sent = sur.tips_sent + EXCLUDED.tips_sent").
		Set("tips_received_count = sur.tips_received_count + EXCLUDED.tips_received_count").
		Set("tips_sent_count = sur.tips_sent_count + EXCLUDED.tips_sent_count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
