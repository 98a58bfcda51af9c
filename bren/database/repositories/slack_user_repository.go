package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/uptrace/bun"
)

type SlackUserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.SlackUser, error)
}

type slackUserRepository struct {
	db *bun.DB
}

func NewSlackUserRepository(db *bun.DB) SlackUserRepository {
	return &slackUserRepository{db: db}
}

func (r *slackUserRepository) GetByUsername(ctx context.Context, username string) (*models.SlackUser, error) {
	user := new(models.SlackUser)
	err := r.db.NewSelect().
		Model(user).
		Where("slack_username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// getOrCreateSlackUser upserts a slack user by username inside tx, creating
// it lazily on first sight the way the ingestion flow expects.
func getOrCreateSlackUser(ctx context.Context, tx bun.IDB, username string) (*models.SlackUser, error) {
	user := &models.SlackUser{
		SlackUsername: username,
		DisplayName:   username,
		CreatedAt:     time.Now(),
	}
	_, err := tx.NewInsert().
		Model(user).
		On("CONFLICT (slack_username) DO UPDATE").
		Set("display_name = EXCLUDED.display_name").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}
