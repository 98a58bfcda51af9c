package repositories

import (
	"context"
	"time"

	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/uptrace/bun"
)

// BotReplyRepository backs the at-most-one-reply-per-cast guarantee. Claim
// reserves the reply slot before anything is posted; the unique constraint on
// user_cast_hash makes concurrent claims for the same cast lose cleanly.
type BotReplyRepository interface {
	Claim(ctx context.Context, userCastHash string) error
	Confirm(ctx context.Context, userCastHash, botCastHash string) error
	Release(ctx context.Context, userCastHash string) error
}

type botReplyRepository struct {
	db *bun.DB
}

func NewBotReplyRepository(db *bun.DB) BotReplyRepository {
	return &botReplyRepository{db: db}
}

func (r *botReplyRepository) Claim(ctx context.Context, userCastHash string) error {
	reply := &models.BotReply{
		UserCastHash: userCastHash,
		CreatedAt:    time.Now(),
	}
	_, err := r.db.NewInsert().Model(reply).Exec(ctx)
	if IsUniqueViolation(err) {
		return ErrReplyExists
	}
	return err
}

func (r *botReplyRepository) Confirm(ctx context.Context, userCastHash, botCastHash string) error {
	_, err := r.db.NewUpdate().
		Model((*models.BotReply)(nil)).
		Set("bot_cast_hash = ?", botCastHash).
		Where("user_cast_hash = ?", userCastHash).
		Exec(ctx)
	return err
}

func (r *botReplyRepository) Release(ctx context.Context, userCastHash string) error {
	_, err := r.db.NewDelete().
		Model((*models.BotReply)(nil)).
		Where("user_cast_hash = ? AND bot_cast_hash = ''", userCastHash).
		Exec(ctx)
	return err
}
