package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/8549/sbustatinabot/sbustatina/game"
	"github.com/sahilm/fuzzy"
	"github.com/uptrace/bun"
)

type SetRepository interface {
	Create(ctx context.Context, set *models.Set) error
	GetByID(ctx context.Context, id string) (*models.Set, error)
	GetByFullName(ctx context.Context, fullName string) (*models.Set, error)
	SuggestNames(ctx context.Context, query string, limit int) ([]string, error)
}

type setRepository struct {
	db *bun.DB
}

func NewSetRepository(db *bun.DB) SetRepository {
	return &setRepository{db: db}
}

func (r *setRepository) Create(ctx context.Context, set *models.Set) error {
	set.CreatedAt = time.Now()
	set.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(set).Exec(ctx)
	return err
}

func (r *setRepository) GetByID(ctx context.Context, id string) (*models.Set, error) {
	set := new(models.Set)
	err := r.db.NewSelect().Model(set).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrUnknownSet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get set %q: %w", id, err)
	}
	return set, nil
}

func (r *setRepository) GetByFullName(ctx context.Context, fullName string) (*models.Set, error) {
	set := new(models.Set)
	err := r.db.NewSelect().
		Model(set).
		Where("LOWER(full_name) = LOWER(?)", fullName).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrUnknownSet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get set %q: %w", fullName, err)
	}
	return set, nil
}

// SuggestNames fuzzy-matches query against all set display names, best match
// first. Used to soften unknown-set replies.
func (r *setRepository) SuggestNames(ctx context.Context, query string, limit int) ([]string, error) {
	var names []string
	err := r.db.NewSelect().
		Model((*models.Set)(nil)).
		Column("full_name").
		Order("full_name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("failed to list set names: %w", err)
	}

	matches := fuzzy.Find(query, names)
	suggestions := make([]string, 0, limit)
	for _, m := range matches {
		if len(suggestions) >= limit {
			break
		}
		suggestions = append(suggestions, names[m.Index])
	}
	return suggestions, nil
}
