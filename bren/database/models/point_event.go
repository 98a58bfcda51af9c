package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// PointEvent is an immutable record of a business action that credited
// points. Rows are only ever inserted.
type PointEvent struct {
	bun.BaseModel `bun:"table:point_events,alias:pe"`

	ID             int64           `bun:"id,pk,autoincrement"`
	UserID         int64           `bun:"user_id,notnull"`
	Event          string          `bun:"event,notnull"`
	Amount         *int64          `bun:"amount"`
	Points         int64           `bun:"points,notnull"`
	Platform       string          `bun:"platform,notnull"`
	AdditionalData json.RawMessage `bun:"additional_data,type:jsonb"`
	CreatedAt      time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}
