package models

import (
	"time"

	"github.com/uptrace/bun"
)

type UserType string

const (
	UserTypeWhitelisted UserType = "WHITELISTED"
	UserTypeInvited     UserType = "INVITED"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               int64     `bun:"id,pk,autoincrement"`
	WalletAddress    string    `bun:"wallet_address,notnull,unique"`
	Name             string    `bun:"name"`
	Email            string    `bun:"email"`
	IsAllowanceGiven bool      `bun:"is_allowance_given,notnull,default:false"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,notnull"`

	FarcasterDetail *FarcasterDetail `bun:"rel:has-one,join:id=user_id"`
	PointEvents     []*PointEvent    `bun:"rel:has-many,join:id=user_id"`
}

type FarcasterDetail struct {
	bun.BaseModel `bun:"table:farcaster_details,alias:fd"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UserID      int64     `bun:"user_id,notnull"`
	FID         int64     `bun:"fid,notnull,unique"`
	Username    string    `bun:"username"`
	Type        UserType  `bun:"type,notnull"`
	InvitesLeft int       `bun:"invites_left,notnull,default:0"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
