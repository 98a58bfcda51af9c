package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	CreateWhitelisted(ctx context.Context, walletAddress string, fid int64) (*models.User, error)
	GetByWallet(ctx context.Context, walletAddress string) (*models.User, error)
	GetDetailByFID(ctx context.Context, fid int64) (*models.FarcasterDetail, error)
	SetAllowanceGiven(ctx context.Context, userID int64) error
	DecrementInvites(ctx context.Context, detailID int64) error
	CreateInvitedDetail(ctx context.Context, fid int64, username string) error
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.WalletAddress = strings.ToLower(user.WalletAddress)
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepository) CreateWhitelisted(ctx context.Context, walletAddress string, fid int64) (*models.User, error) {
	user := &models.User{
		WalletAddress: strings.ToLower(walletAddress),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
		detail := &models.FarcasterDetail{
			UserID:    user.ID,
			FID:       fid,
			Type:      models.UserTypeWhitelisted,
			CreatedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(detail).Exec(ctx); err != nil {
			return err
		}
		user.FarcasterDetail = detail
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create whitelisted user: %w", err)
	}

	slog.Info("Whitelisted user created",
		slog.String("type", "db"),
		slog.String("wallet", user.WalletAddress),
		slog.Int64("fid", fid))

	return user, nil
}

func (r *userRepository) GetByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("wallet_address = ?", strings.ToLower(walletAddress)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetDetailByFID(ctx context.Context, fid int64) (*models.FarcasterDetail, error) {
	detail := new(models.FarcasterDetail)
	err := r.db.NewSelect().
		Model(detail).
		Where("fid = ?", fid).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return detail, nil
}

func (r *userRepository) SetAllowanceGiven(ctx context.Context, userID int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_allowance_given = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

func (r *userRepository) DecrementInvites(ctx context.Context, detailID int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.FarcasterDetail)(nil)).
		Set("invites_left = invites_left - 1").
		Where("id = ? AND invites_left > 0", detailID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("no invites left")
	}
	return nil
}

func (r *userRepository) CreateInvitedDetail(ctx context.Context, fid int64, username string) error {
	detail := &models.FarcasterDetail{
		FID:       fid,
		Username:  username,
		Type:      models.UserTypeInvited,
		CreatedAt: time.Now(),
	}
	_, err := r.db.NewInsert().Model(detail).Exec(ctx)
	if IsUniqueViolation(err) {
		// Already known, whitelisted or previously invited.
		return nil
	}
	return err
}
