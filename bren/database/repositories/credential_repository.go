package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/NestcoinCo/bren/bren/database/models"
	"github.com/uptrace/bun"
)

type CredentialRepository interface {
	IsActiveKey(ctx context.Context, apiKey string) (bool, error)
}

type credentialRepository struct {
	db *bun.DB
}

func NewCredentialRepository(db *bun.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) IsActiveKey(ctx context.Context, apiKey string) (bool, error) {
	cred := new(models.APICredential)
	err := r.db.NewSelect().
		Model(cred).
		Where("api_key = ?", apiKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return cred.IsActive, nil
}
