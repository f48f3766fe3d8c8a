package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DrawRecord is one pack-opening attempt. Rows are append-only and only ever
// counted, never read back individually.
type DrawRecord struct {
	bun.BaseModel `bun:"table:draws,alias:d"`

	ID      int64     `bun:"id,pk,autoincrement"`
	UserID  string    `bun:"user_id,notnull"`
	DrawnAt time.Time `bun:"drawn_at,notnull"`
}
