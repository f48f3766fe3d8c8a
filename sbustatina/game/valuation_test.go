package game

import (
	"context"
	"testing"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		fraction float64
		want     Tier
	}{
		{0, TierNothingYet},
		{0.0001, TierGoodStart},
		{30.0 / 102.0, TierGoodStart},
		{0.30, TierGoodStart},
		{0.31, TierDecentPile},
		{0.45, TierDecentPile},
		{0.46, TierHalfway},
		{0.55, TierHalfway},
		{0.56, TierPastHalfway},
		{0.70, TierPastHalfway},
		{0.71, TierAlmostThere},
		{0.95, TierAlmostThere},
		{0.96, TierNearlyComplete},
		{0.999, TierNearlyComplete},
		{1, TierComplete},
		// Out-of-range fractions clamp to the endpoints.
		{1.2, TierComplete},
		{-0.1, TierNothingYet},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, TierFor(tt.fraction), "fraction %v", tt.fraction)
	}
}

type fakeSetStore struct {
	sets map[string]*models.Set
}

func (f *fakeSetStore) GetByFullName(_ context.Context, fullName string) (*models.Set, error) {
	set, ok := f.sets[fullName]
	if !ok {
		return nil, ErrUnknownSet
	}
	return set, nil
}

type fakeOwnedCounter struct {
	owned map[string]int // keyed by setID
}

func (f *fakeOwnedCounter) CountOwnedInSet(_ context.Context, _ string, setID string) (int, error) {
	return f.owned[setID], nil
}

func newTestValuator(owned int) *Valuator {
	return NewValuator(
		&fakeSetStore{sets: map[string]*models.Set{
			"Base Set": {ID: "base-set", FullName: "Base Set", NumberOfCards: 102},
		}},
		&fakeOwnedCounter{owned: map[string]int{"base-set": owned}},
	)
}

func TestValuator_Evaluate(t *testing.T) {
	v := newTestValuator(30)

	valuation, err := v.Evaluate(context.Background(), "user-1", "Base Set")
	require.NoError(t, err)

	assert.Equal(t, 30, valuation.Owned)
	assert.InDelta(t, 0.294, valuation.Fraction, 0.001)
	assert.Equal(t, TierGoodStart, valuation.Tier)
}

func TestValuator_Evaluate_MissingArgument(t *testing.T) {
	v := newTestValuator(0)

	for _, name := range []string{"", "   "} {
		_, err := v.Evaluate(context.Background(), "user-1", name)
		assert.ErrorIs(t, err, ErrMissingArgument)
	}
}

func TestValuator_Evaluate_UnknownSet(t *testing.T) {
	v := newTestValuator(0)

	_, err := v.Evaluate(context.Background(), "user-1", "Jungle")
	assert.ErrorIs(t, err, ErrUnknownSet)
}

func TestValuator_Evaluate_ClampsAboveNominalSize(t *testing.T) {
	// Secret variants can push distinct owned rows past the nominal size.
	v := newTestValuator(110)

	valuation, err := v.Evaluate(context.Background(), "user-1", "Base Set")
	require.NoError(t, err)

	assert.Equal(t, 1.0, valuation.Fraction)
	assert.Equal(t, TierComplete, valuation.Tier)
}
