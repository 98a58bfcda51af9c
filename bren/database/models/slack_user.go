package models

import (
	"time"

	"github.com/uptrace/bun"
)

type SlackUser struct {
	bun.BaseModel `bun:"table:slack_users,alias:su"`

	ID            int64     `bun:"id,pk,autoincrement"`
	SlackUsername string    `bun:"slack_username,notnull,unique"`
	DisplayName   string    `bun:"display_name,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
