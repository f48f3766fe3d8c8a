package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/8549/sbustatinabot/sbustatina/game"
	"github.com/uptrace/bun"
)

type CollectionRepository interface {
	Merge(ctx context.Context, userID string, cardID int64) (*models.CollectionEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*models.CollectionEntry, error)
	CountOwnedInSet(ctx context.Context, userID string, setID string) (int, error)
	CountOwned(ctx context.Context, userID string) (int, error)
}

type collectionRepository struct {
	db *bun.DB
}

func NewCollectionRepository(db *bun.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

// Merge records one drawn copy of cardID for userID: first copy inserts the
// entry with count 1, re-draws increment. A single upsert against the
// (user_id, card_id) unique index keeps concurrent merges from losing an
// increment.
func (r *collectionRepository) Merge(ctx context.Context, userID string, cardID int64) (*models.CollectionEntry, error) {
	now := time.Now()
	entry := &models.CollectionEntry{
		UserID:    userID,
		CardID:    cardID,
		Count:     1,
		Obtained:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.NewInsert().
		Model(entry).
		On("CONFLICT (user_id, card_id) DO UPDATE").
		Set("count = ce.count + 1").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to merge collection entry: %w", err)
	}

	return entry, nil
}

// ListByUser returns the user's ledger joined with cards and their sets,
// ordered ascending by printed card number. Returns game.ErrEmptyCollection
// when the user owns nothing.
func (r *collectionRepository) ListByUser(ctx context.Context, userID string) ([]*models.CollectionEntry, error) {
	var entries []*models.CollectionEntry
	err := r.db.NewSelect().
		Model(&entries).
		Relation("Card").
		Relation("Card.Set").
		Where("ce.user_id = ?", userID).
		Order("card.number ASC", "card.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}
	if len(entries) == 0 {
		return nil, game.ErrEmptyCollection
	}
	return entries, nil
}

// CountOwnedInSet counts distinct owned cards belonging to one set. This is
// the valuation numerator; duplicates of the same card count once.
func (r *collectionRepository) CountOwnedInSet(ctx context.Context, userID string, setID string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.CollectionEntry)(nil)).
		Join("JOIN cards AS card ON card.id = ce.card_id").
		Where("ce.user_id = ?", userID).
		Where("card.set_id = ?", setID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count owned cards in set: %w", err)
	}
	return count, nil
}

func (r *collectionRepository) CountOwned(ctx context.Context, userID string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.CollectionEntry)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count owned cards: %w", err)
	}
	return count, nil
}
