package models

import (
	"time"

	"github.com/uptrace/bun"
)

type APICredential struct {
	bun.BaseModel `bun:"table:api_credentials,alias:ac"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	APIKey    string    `bun:"api_key,notnull,unique"`
	IsActive  bool      `bun:"is_active,notnull,default:true"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
