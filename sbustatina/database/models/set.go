package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Set is a named card set. FullName is the lookup key users type in /valuta;
// NumberOfCards is the nominal set size used as the completion denominator and
// may be smaller than the actual card row count (secret rares inflate rows).
type Set struct {
	bun.BaseModel `bun:"table:sets,alias:s"`

	ID            string    `bun:"id,pk"`
	FullName      string    `bun:"full_name,notnull,unique"`
	NumberOfCards int       `bun:"number_of_cards,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`

	// Relations
	Cards []*Card `bun:"rel:has-many,join:id=set_id"`
}
