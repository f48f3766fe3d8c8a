package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
)

// QuotaStore counts and appends draw attempts. Record only ever appends; rows
// are never updated or removed by the engine.
type QuotaStore interface {
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
	Record(ctx context.Context, userID string, at time.Time) error
}

// Catalog loads the drawable pool of a set, sorted ascending by card number.
type Catalog interface {
	PoolBySet(ctx context.Context, setID string) ([]*models.Card, error)
}

// Ledger merges a drawn card into the user's collection.
type Ledger interface {
	Merge(ctx context.Context, userID string, cardID int64) (*models.CollectionEntry, error)
}

// ArtworkResolver hands out a short-lived read URL for a card's artwork. The
// URL is requested fresh on every draw and never persisted.
type ArtworkResolver interface {
	CardImageURL(ctx context.Context, setID string, image string) (string, error)
}

// OpenerConfig carries the gameplay knobs.
type OpenerConfig struct {
	// DailyLimit is the number of draws a user gets per calendar day.
	DailyLimit int
	// DefaultSet is the set drawn from until per-user set selection exists.
	DefaultSet string
	// Location is the reference timezone deciding where the day boundary falls.
	Location *time.Location
}

// DrawResult is a successful pack opening.
type DrawResult struct {
	Card       *models.Card
	Entry      *models.CollectionEntry
	ArtworkURL string
	// Remaining is how many draws the user has left today, after this one.
	Remaining int
}

// Opener runs the pack-opening transaction: quota gate, attempt record, pool
// load, weighted sample, artwork resolution, ledger merge. All collaborators
// are injected; the Opener holds no process-wide state.
type Opener struct {
	cfg     OpenerConfig
	quota   QuotaStore
	catalog Catalog
	ledger  Ledger
	artwork ArtworkResolver

	now  func() time.Time
	roll func() float64
}

func NewOpener(cfg OpenerConfig, quota QuotaStore, catalog Catalog, ledger Ledger, artwork ArtworkResolver) *Opener {
	return &Opener{
		cfg:     cfg,
		quota:   quota,
		catalog: catalog,
		ledger:  ledger,
		artwork: artwork,
		now:     time.Now,
		roll:    rand.Float64,
	}
}

// dayStart is the most recent midnight in the reference timezone.
func (o *Opener) dayStart(at time.Time) time.Time {
	local := at.In(o.cfg.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, o.cfg.Location)
}

// Open performs one draw for the user. Once the attempt is recorded it stays
// recorded: a failure in any later step surfaces as an error with the quota
// already consumed. The check-then-record window is not atomic across
// concurrent requests for the same user, so simultaneous draws at the limit
// can over-grant by the number of in-flight requests; accepted for this
// domain, see DESIGN.md.
func (o *Opener) Open(ctx context.Context, userID string) (*DrawResult, error) {
	now := o.now()

	used, err := o.quota.CountSince(ctx, userID, o.dayStart(now))
	if err != nil {
		return nil, fmt.Errorf("failed to count draws: %w", err)
	}
	if used >= o.cfg.DailyLimit {
		return nil, ErrQuotaExceeded
	}

	if err := o.quota.Record(ctx, userID, now); err != nil {
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}

	pool, err := o.catalog.PoolBySet(ctx, o.cfg.DefaultSet)
	if err != nil {
		return nil, err
	}

	card, err := Choose(pool, o.roll())
	if err != nil {
		return nil, err
	}

	url, err := o.artwork.CardImageURL(ctx, card.SetID, card.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve artwork: %w", err)
	}

	entry, err := o.ledger.Merge(ctx, userID, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to merge collection: %w", err)
	}

	slog.Debug("Pack opened",
		slog.String("type", "db"),
		slog.String("user_id", userID),
		slog.Int64("card_id", card.ID),
		slog.Int64("count", entry.Count))

	remaining := o.cfg.DailyLimit - used - 1
	if remaining < 0 {
		remaining = 0
	}

	return &DrawResult{
		Card:       card,
		Entry:      entry,
		ArtworkURL: url,
		Remaining:  remaining,
	}, nil
}
