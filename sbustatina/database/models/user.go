package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is created on first interaction and never deleted.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement"`
	DiscordID string    `bun:"discord_id,notnull,unique"`
	Username  string    `bun:"username"`
	FirstName string    `bun:"first_name"`
	LastName  string    `bun:"last_name"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
