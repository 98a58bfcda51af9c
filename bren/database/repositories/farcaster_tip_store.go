package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/NestcoinCo/bren/bren/database"
	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/NestcoinCo/bren/bren/tipping"
	"github.com/uptrace/bun"
)

// FarcasterTipStore persists Farcaster tips. Unlike the Slack store, users
// are not created lazily here: only wallets that went through whitelisting or
// an invite have a FarcasterDetail row, and tips between unknown FIDs are
// ineligible rather than auto-provisioned.
type FarcasterTipStore struct {
	db *bun.DB
	tm *database.TxManager
}

func NewFarcasterTipStore(db *bun.DB, tm *database.TxManager) *FarcasterTipStore {
	return &FarcasterTipStore{db: db, tm: tm}
}

var _ tipping.Store = (*FarcasterTipStore)(nil)

func (s *FarcasterTipStore) HasProcessed(ctx context.Context, eventID string) (bool, error) {
	return s.db.NewSelect().
		Model((*models.Transaction)(nil)).
		Where("cast_hash = ?", eventID).
		Exists(ctx)
}

func (s *FarcasterTipStore) Commit(ctx context.Context, tip tipping.Tip, weekStart time.Time, cap int64) (tipping.CommitResult, error) {
	var result tipping.CommitResult

	err := s.tm.WithTransaction(ctx, database.SerializableTxOptions(), func(ctx context.Context, tx bun.Tx) error {
		fromDetail, err := detailForFID(ctx, tx, tip.Sender.PlatformID)
		if err != nil {
			return err
		}
		toDetail, err := detailForFID(ctx, tx, tip.Recipient.PlatformID)
		if err != nil {
			return err
		}
		if fromDetail == nil || toDetail == nil {
			result = tipping.CommitResult{Ineligible: true}
			return nil
		}

		var spent int64
		if err := tx.NewSelect().
			ColumnExpr("COALESCE(SUM(amount), 0)").
			Model((*models.Transaction)(nil)).
			Where("from_user_id = ?", fromDetail.UserID).
			Where("created_at >= ?", weekStart).
			Scan(ctx, &spent); err != nil {
			return err
		}

		remaining, ok := tipping.CheckSpend(cap, spent, tip.Amount)
		if !ok {
			result = tipping.CommitResult{Exceeded: true, Remaining: remaining}
			return nil
		}

		txn := &models.Transaction{
			FromUserID: fromDetail.UserID,
			ToUserID:   toDetail.UserID,
			Amount:     tip.Amount,
			CastHash:   tip.EventID,
			Text:       tip.Text,
			CreatedAt:  time.Now(),
		}
		if _, err := tx.NewInsert().Model(txn).Exec(ctx); err != nil {
			if IsUniqueViolation(err) {
				result = tipping.CommitResult{Duplicate: true}
				return nil
			}
			return err
		}

		weekly := &models.WeeklyPoints{
			UserID:       toDetail.UserID,
			WeekStart:    weekStart,
			Platform:     string(tipping.PlatformFarcaster),
			PointsEarned: tip.Amount,
		}
		if _, err := tx.NewInsert().
			Model(weekly).
			On("CONFLICT (user_id, week_start, platform) DO UPDATE").
			Set("points_earned = wp.points_earned + EXCLUDED.points_earned").
			Exec(ctx); err != nil {
			return err
		}

		if err := incrementUserRankings(ctx, tx, fromDetail.UserID, 0, tip.Amount); err != nil {
			return err
		}
		if err := incrementUserRankings(ctx, tx, toDetail.UserID, tip.Amount, 0); err != nil {
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

func detailForFID(ctx context.Context, tx bun.IDB, platformID string) (*models.FarcasterDetail, error) {
	fid, err := strconv.ParseInt(platformID, 10, 64)
	if err != nil {
		return nil, nil
	}
	detail := new(models.FarcasterDetail)
	err = tx.NewSelect().
		Model(detail).
		Where("fid = ?", fid).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return detail, nil
}

func incrementUserRankings(ctx context.Context, tx bun.IDB, userID, received, sent int64) error {
	ranking := &models.UserRankings{
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
		Set("tips_received = ur.tips_received + EXCLUDED.tips_received").
		Set("tips_sent = ur.tips_sent + EXCLUDED.tips_sent").
		Set("tips_received_count = ur.tips_received_count + EXCLUDED.tips_received_count").
		Set("tips_sent_count = ur.tips_sent_count + EXCLUDED.tips_sent_count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
