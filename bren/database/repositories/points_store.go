package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/NestcoinCo/bren/bren/database"
	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/NestcoinCo/bren/bren/points"
	"github.com/uptrace/bun"
)

// PointsStore applies point events. Each application is one transaction:
// either the event row, both aggregate increments and the total readback all
// land, or none of them do.
type PointsStore struct {
	db *bun.DB
	tm *database.TxManager
}

func NewPointsStore(db *bun.DB, tm *database.TxManager) *PointsStore {
	return &PointsStore{db: db, tm: tm}
}

var _ points.Store = (*PointsStore)(nil)

func (s *PointsStore) Apply(ctx context.Context, rec points.Record) (points.Receipt, error) {
	var receipt points.Receipt

	err := s.tm.WithTransaction(ctx, database.StandardTxOptions(), func(ctx context.Context, tx bun.Tx) error {
		user, err := getOrCreateUser(ctx, tx, rec.WalletAddress, rec.Name, rec.Email)
		if err != nil {
			return err
		}

		event := &models.PointEvent{
			UserID:         user.ID,
			Event:          string(rec.Event),
			Amount:         rec.Amount,
			Points:         rec.Points,
			Platform:       string(rec.Platform),
			AdditionalData: rec.AdditionalData,
			CreatedAt:      time.Now(),
		}
		if _, err := tx.NewInsert().Model(event).Exec(ctx); err != nil {
			return err
		}

		weekly := &models.WeeklyPoints{
			UserID:       user.ID,
			WeekStart:    rec.WeekStart,
			Platform:     string(rec.Platform),
			PointsEarned: rec.Points,
		}
		if _, err := tx.NewInsert().
			Model(weekly).
			On("CONFLICT (user_id, week_start, platform) DO UPDATE").
			Set("points_earned = wp.points_earned + EXCLUDED.points_earned").
			Exec(ctx); err != nil {
			return err
		}

		if err := incrementUserRankings(ctx, tx, user.ID, rec.Points, 0); err != nil {
			return err
		}

		var total int64
		if err := tx.NewSelect().
			ColumnExpr("COALESCE(SUM(points), 0)").
			Model((*models.PointEvent)(nil)).
			Where("user_id = ?", user.ID).
			Scan(ctx, &total); err != nil {
			return err
		}

		receipt = points.Receipt{
			UserID:       user.ID,
			Wallet:       user.WalletAddress,
			PointsEarned: rec.Points,
			TotalPoints:  total,
		}
		return nil
	})
	if err != nil {
		return points.Receipt{}, err
	}
	return receipt, nil
}

func getOrCreateUser(ctx context.Context, tx bun.IDB, walletAddress, name, email string) (*models.User, error) {
	wallet := strings.ToLower(walletAddress)

	user := new(models.User)
	err := tx.NewSelect().
		Model(user).
		Where("wallet_address = ?", wallet).
		Scan(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	user = &models.User{
		WalletAddress: wallet,
		Name:          name,
		Email:         email,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}
