package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CollectionEntry is the per-user ledger row for one owned card. It references
// the card row, not the printed number, so duplicate-numbered variants remain
// distinct entries. Count starts at 1 and only grows.
type CollectionEntry struct {
	bun.BaseModel `bun:"table:collection_entries,alias:ce"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull"`
	CardID    int64     `bun:"card_id,notnull"`
	Count     int64     `bun:"count,notnull,default:1"`
	Obtained  time.Time `bun:"obtained,notnull,default:current_timestamp"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	// Relations
	Card *Card `bun:"rel:belongs-to,join:card_id=id"`
}
