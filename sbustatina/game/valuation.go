package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
)

// Tier describes how complete a set is.
type Tier string

const (
	TierNothingYet     Tier = "nothing yet"
	TierGoodStart      Tier = "good start"
	TierDecentPile     Tier = "decent pile"
	TierHalfway        Tier = "halfway"
	TierPastHalfway    Tier = "past halfway"
	TierAlmostThere    Tier = "almost there"
	TierNearlyComplete Tier = "nearly complete"
	TierComplete       Tier = "complete"
)

// TierFor maps a completion fraction to its tier. Buckets are lower-exclusive,
// upper-inclusive except the endpoints; out-of-range fractions are clamped, so
// secret variants pushing owned count past the nominal size still read as
// complete.
func TierFor(f float64) Tier {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	switch {
	case f == 0:
		return TierNothingYet
	case f <= 0.30:
		return TierGoodStart
	case f <= 0.45:
		return TierDecentPile
	case f <= 0.55:
		return TierHalfway
	case f <= 0.70:
		return TierPastHalfway
	case f <= 0.95:
		return TierAlmostThere
	case f < 1:
		return TierNearlyComplete
	default:
		return TierComplete
	}
}

// SetStore resolves sets by their display name.
type SetStore interface {
	GetByFullName(ctx context.Context, fullName string) (*models.Set, error)
}

// OwnedCounter reports how many distinct cards of a set a user owns.
type OwnedCounter interface {
	CountOwnedInSet(ctx context.Context, userID string, setID string) (int, error)
}

// Valuation is the outcome of evaluating one set for one user.
type Valuation struct {
	Set      *models.Set
	Owned    int
	Fraction float64
	Tier     Tier
}

type Valuator struct {
	sets   SetStore
	ledger OwnedCounter
}

func NewValuator(sets SetStore, ledger OwnedCounter) *Valuator {
	return &Valuator{sets: sets, ledger: ledger}
}

// Evaluate computes the completion tier of the named set for the user. The
// numerator counts only ledger entries whose card belongs to that set, not the
// user's whole collection.
func (v *Valuator) Evaluate(ctx context.Context, userID string, setName string) (*Valuation, error) {
	setName = strings.TrimSpace(setName)
	if setName == "" {
		return nil, ErrMissingArgument
	}

	set, err := v.sets.GetByFullName(ctx, setName)
	if err != nil {
		return nil, err
	}
	if set.NumberOfCards <= 0 {
		return nil, fmt.Errorf("set %q has no nominal size", set.FullName)
	}

	owned, err := v.ledger.CountOwnedInSet(ctx, userID, set.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count owned cards: %w", err)
	}

	fraction := float64(owned) / float64(set.NumberOfCards)
	if fraction > 1 {
		fraction = 1
	}

	return &Valuation{
		Set:      set,
		Owned:    owned,
		Fraction: fraction,
		Tier:     TierFor(fraction),
	}, nil
}
