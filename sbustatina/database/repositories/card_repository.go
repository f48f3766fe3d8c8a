package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/8549/sbustatinabot/sbustatina/game"
	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
)

const poolCacheSize = 64

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	BulkCreate(ctx context.Context, cards []*models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	PoolBySet(ctx context.Context, setID string) ([]*models.Card, error)
}

type cardRepository struct {
	db    *bun.DB
	pools *lru.Cache
}

func NewCardRepository(db *bun.DB) CardRepository {
	cache, _ := lru.New(poolCacheSize)
	return &cardRepository{
		db:    db,
		pools: cache,
	}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(card).Exec(ctx)
	if err == nil {
		r.pools.Remove(card.SetID)
	}
	return err
}

func (r *cardRepository) BulkCreate(ctx context.Context, cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}
	now := time.Now()
	for _, card := range cards {
		card.CreatedAt = now
		card.UpdatedAt = now
	}
	_, err := r.db.NewInsert().Model(&cards).Exec(ctx)
	if err == nil {
		for _, card := range cards {
			r.pools.Remove(card.SetID)
		}
	}
	return err
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	card := new(models.Card)
	err := r.db.NewSelect().
		Model(card).
		Relation("Set").
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get card %d: %w", id, err)
	}
	return card, nil
}

// PoolBySet loads the drawable pool of a set, ordered ascending by printed
// number with the row id as tiebreak so fixed-seed draws stay reproducible.
// The catalog is immutable once seeded, so pools are cached. Returns
// game.ErrUnknownSet when the set has no card rows.
func (r *cardRepository) PoolBySet(ctx context.Context, setID string) ([]*models.Card, error) {
	if cached, ok := r.pools.Get(setID); ok {
		return cached.([]*models.Card), nil
	}

	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Relation("Set").
		Where("c.set_id = ?", setID).
		Order("c.number ASC", "c.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool for set %q: %w", setID, err)
	}
	if len(cards) == 0 {
		return nil, game.ErrUnknownSet
	}

	r.pools.Add(setID, cards)
	return cards, nil
}
