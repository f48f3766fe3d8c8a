package game

import (
	"math"

	"github.com/8549/sbustatinabot/sbustatina/database/models"
)

// Choose picks one card from pool with probability proportional to its weight.
// roll must be a uniform real in [0, 1); the caller owns the randomness source
// so draws stay reproducible under a seeded source. The pool is walked in the
// order given (the catalog reader hands it over sorted ascending by number),
// accumulating weights until the scaled roll is exceeded. O(n), input is never
// mutated.
//
// Returns ErrInvalidPool when the pool is empty, a weight is negative or
// non-finite, or the weight sum is not positive.
func Choose(pool []*models.Card, roll float64) (*models.Card, error) {
	if len(pool) == 0 {
		return nil, ErrInvalidPool
	}

	var sum float64
	for _, card := range pool {
		w := card.Weight
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, ErrInvalidPool
		}
		sum += w
	}
	if sum <= 0 {
		return nil, ErrInvalidPool
	}

	target := roll * sum
	var cum float64
	for _, card := range pool {
		cum += card.Weight
		if target < cum {
			return card, nil
		}
	}

	// Float accumulation can leave target a hair beyond cum when roll is close
	// to 1; the terminal bucket absorbs it.
	return pool[len(pool)-1], nil
}
