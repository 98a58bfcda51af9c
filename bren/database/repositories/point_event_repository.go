package repositories

import (
	"context"

	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/uptrace/bun"
)

type PointEventRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.PointEvent, error)
	TotalForUser(ctx context.Context, userID int64) (int64, error)
}

type pointEventRepository struct {
	db *bun.DB
}

func NewPointEventRepository(db *bun.DB) PointEventRepository {
	return &pointEventRepository{db: db}
}

func (r *pointEventRepository) ListByUser(ctx context.Context, userID int64) ([]*models.PointEvent, error) {
	var events []*models.PointEvent
	err := r.db.NewSelect().
		Model(&events).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	return events, err
}

func (r *pointEventRepository) TotalForUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.NewSelect().
		ColumnExpr("COALESCE(SUM(points), 0)").
		Model((*models.PointEvent)(nil)).
		Where("user_id = ?", userID).
		Scan(ctx, &total)
	return total, err
}
