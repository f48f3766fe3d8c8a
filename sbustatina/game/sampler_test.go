package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePool(weights ...float64) []*models.Card {
	pool := make([]*models.Card, 0, len(weights))
	for i, w := range weights {
		pool = append(pool, &models.Card{
			ID:     int64(i + 1),
			Number: i + 1,
			Name:   "card",
			Weight: w,
		})
	}
	return pool
}

func TestChoose_FixedRolls(t *testing.T) {
	pool := makePool(1, 2, 3) // cumulative: 1, 3, 6

	tests := []struct {
		name string
		roll float64
		want int64
	}{
		{"zero roll hits first", 0, 1},
		{"just under first boundary", 0.16, 1},
		{"just over first boundary", 0.17, 2},
		{"just under second boundary", 0.49, 2},
		{"on second boundary", 0.5, 3},
		{"near one", 0.99, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := Choose(pool, tt.roll)
			require.NoError(t, err)
			assert.Equal(t, tt.want, card.ID)
		})
	}
}

func TestChoose_ZeroWeightNeverSelected(t *testing.T) {
	pool := makePool(0, 5)

	for _, roll := range []float64{0, 0.25, 0.5, 0.999} {
		card, err := Choose(pool, roll)
		require.NoError(t, err)
		assert.Equal(t, int64(2), card.ID)
	}
}

func TestChoose_InvalidPool(t *testing.T) {
	tests := []struct {
		name string
		pool []*models.Card
	}{
		{"empty pool", nil},
		{"zero weight sum", makePool(0, 0, 0)},
		{"negative weight", makePool(1, -1, 3)},
		{"nan weight", makePool(1, math.NaN())},
		{"infinite weight", makePool(1, math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Choose(tt.pool, 0.5)
			assert.ErrorIs(t, err, ErrInvalidPool)
		})
	}
}

func TestChoose_DoesNotMutateInput(t *testing.T) {
	pool := makePool(3, 1, 2)
	before := make([]*models.Card, len(pool))
	copy(before, pool)

	for i := 0; i < 100; i++ {
		_, err := Choose(pool, float64(i)/100)
		require.NoError(t, err)
	}

	assert.Equal(t, before, pool)
	for i := range pool {
		assert.Same(t, before[i], pool[i])
	}
}

func TestChoose_FrequencyConvergesToWeights(t *testing.T) {
	pool := makePool(1, 2, 3)
	rng := rand.New(rand.NewSource(42))

	const draws = 60000
	counts := make(map[int64]int)
	for i := 0; i < draws; i++ {
		card, err := Choose(pool, rng.Float64())
		require.NoError(t, err)
		counts[card.ID]++
	}

	// Expected shares 1/6, 2/6, 3/6; with 60k draws the standard error is
	// about 0.002, so 0.02 absolute tolerance is generous.
	for _, card := range pool {
		want := card.Weight / 6
		got := float64(counts[card.ID]) / draws
		assert.InDeltaf(t, want, got, 0.02, "card %d frequency", card.ID)
	}
}
