package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Card is one drawable card row. ID is the surrogate row key and the identity
// the collection ledger references. Number is the printed card number, unique
// only within a set and deliberately duplicable: secret-rare variants share the
// number of the card they mirror and stay separate rows.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SetID     string    `bun:"set_id,notnull"`
	Number    int       `bun:"number,notnull"`
	Name      string    `bun:"name,notnull"`
	Weight    float64   `bun:"weight,notnull"`
	Image     string    `bun:"image,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	// Relations
	Set *Set `bun:"rel:belongs-to,join:set_id=id"`
}
