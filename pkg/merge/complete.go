package merge

import (
	"fmt"
	"math/rand"

	"trust-shield/models"
	"trust-shield/pkg/normalize"
)

// CompletionStrategy supplies values for fields a sparse listing is
// missing. Implementations decide how the choices are made; the
// completed record is what reaches scoring, so deterministic callers
// must pick a deterministic strategy.
type CompletionStrategy interface {
	Neighborhood() string
	PhotoCount() int
	HasFloorPlan() bool
}

// Deterministic always makes the same fixed, neutral choices.
type Deterministic struct{}

func (Deterministic) Neighborhood() string { return normalize.DefaultNeighborhoodPrices[0].Name }
func (Deterministic) PhotoCount() int      { return 8 }
func (Deterministic) HasFloorPlan() bool   { return false }

// Randomized draws completions from a seeded source. Useful for
// generating varied fixtures; never used on the scoring path.
type Randomized struct {
	rng *rand.Rand
}

// NewRandomized builds a Randomized strategy from a seed.
func NewRandomized(seed int64) *Randomized {
	return &Randomized{rng: rand.New(rand.NewSource(seed))}
}

func (r *Randomized) Neighborhood() string {
	i := r.rng.Intn(len(normalize.DefaultNeighborhoodPrices))
	return normalize.DefaultNeighborhoodPrices[i].Name
}

func (r *Randomized) PhotoCount() int    { return 1 + r.rng.Intn(25) }
func (r *Randomized) HasFloorPlan() bool { return r.rng.Intn(2) == 1 }

// Complete fills fields the listing is missing entirely. It only runs
// when the listing has a price: a record without even a price is too
// thin to embellish. Present values are never touched, including
// explicit zero counts and false flags.
func Complete(l *models.Listing, strategy CompletionStrategy) {
	if l == nil || l.Price == nil || strategy == nil {
		return
	}

	if l.Neighborhood == "" {
		l.Neighborhood = strategy.Neighborhood()
	}
	if l.PhotoCount == nil {
		l.PhotoCount = models.Int(strategy.PhotoCount())
	}
	if l.HasFloorPlan == nil {
		l.HasFloorPlan = models.Bool(strategy.HasFloorPlan())
	}
	if l.Description == "" {
		if l.Area != nil {
			l.Description = fmt.Sprintf("Piso de %.0f m² en %s.", *l.Area, l.Neighborhood)
		} else {
			l.Description = fmt.Sprintf("Piso en %s.", l.Neighborhood)
		}
	}
}
