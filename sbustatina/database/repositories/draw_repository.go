package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/uptrace/bun"
)

type DrawRepository interface {
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	Record(ctx context.Context, userID string, at time.Time) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	StartCleanupRoutine(ctx context.Context, retention time.Duration)
}

type drawRepository struct {
	db *bun.DB
}

func NewDrawRepository(db *bun.DB) DrawRepository {
	return &drawRepository{db: db}
}

func (r *drawRepository) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.DrawRecord)(nil)).
		Where("user_id = ?", userID).
		Where("drawn_at >= ?", since).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}

func (r *drawRepository) Record(ctx context.Context, userID string, at time.Time) error {
	record := &models.DrawRecord{
		UserID:  userID,
		DrawnAt: at,
	}
	_, err := r.db.NewInsert().Model(record).Exec(ctx)
	return err
}

func (r *drawRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.NewDelete().
		Model((*models.DrawRecord)(nil)).
		Where("drawn_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// StartCleanupRoutine prunes draw records older than retention on a ticker.
// Retention must exceed a day so pruning never narrows the quota window; only
// the table size is bounded, the quota itself is computed from fresh rows.
func (r *drawRepository) StartCleanupRoutine(ctx context.Context, retention time.Duration) {
	ticker := time.NewTicker(time.Hour)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pruned, err := r.DeleteOlderThan(ctx, time.Now().Add(-retention))
				if err != nil {
					slog.Error("Failed to prune draw records",
						slog.String("type", "db"),
						slog.Any("error", err))
					continue
				}
				if pruned > 0 {
					slog.Debug("Pruned draw records",
						slog.String("type", "db"),
						slog.Int64("rows", pruned))
				}
			}
		}
	}()
}
