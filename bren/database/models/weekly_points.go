package models

import (
	"time"

	"github.com/uptrace/bun"
)

// WeeklyPoints aggregates points earned per user per week per platform.
// One row per (user, week_start, platform), mutated via increment upsert.
type WeeklyPoints struct {
	bun.BaseModel `bun:"table:weekly_points,alias:wp"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	WeekStart    time.Time `bun:"week_start,notnull"`
	Platform     string    `bun:"platform,notnull"`
	PointsEarned int64     `bun:"points_earned,notnull,default:0"`
}

// SlackWeeklyPoints tracks tip volume given per user per week. Its week key
// is Sunday-local, unlike WeeklyPoints' Monday-UTC; the two stay distinct.
type SlackWeeklyPoints struct {
	bun.BaseModel `bun:"table:slack_weekly_points,alias:swp"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id,notnull"`
	WeekStart   time.Time `bun:"week_start,notnull"`
	PointsGiven int64     `bun:"points_given,notnull,default:0"`
}
