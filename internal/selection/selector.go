// Package selection picks the ad a slot instance displays. The default
// strategy is a uniform random rotation; alternative strategies plug in
// behind the Selector interface without touching rendering or telemetry.
package selection

import (
	"math/rand"

	"github.com/slotserve/slotserve/internal/models"
)

// Selector picks exactly one ad from a candidate set. Implementations must
// return the sentinel ad when the set is empty and must never return it
// otherwise.
type Selector interface {
	Select(candidates []models.Ad) models.Ad
}

// defaultShuffleFn shuffles candidates using rand.Shuffle. It relies on the
// package-level random source.
var defaultShuffleFn = func(ads []models.Ad) {
	rand.Shuffle(len(ads), func(i, j int) {
		ads[i], ads[j] = ads[j], ads[i]
	})
}

// ShuffleFn randomizes the candidate slice. Tests may replace it for
// deterministic behavior.
var ShuffleFn = defaultShuffleFn

// RandomSelector performs a uniform random permutation of the candidates
// and picks the first element. Because every slot instance selects
// independently, simultaneous instances of the same placement rotate
// through the inventory by multiplicity.
type RandomSelector struct{}

// NewRandomSelector constructs the default selector.
func NewRandomSelector() *RandomSelector {
	return &RandomSelector{}
}

// Select returns one candidate, or the sentinel ad for an empty set. The
// input slice is not mutated.
func (s *RandomSelector) Select(candidates []models.Ad) models.Ad {
	if len(candidates) == 0 {
		return models.SentinelAd()
	}
	picks := make([]models.Ad, len(candidates))
	copy(picks, candidates)
	ShuffleFn(picks)
	return picks[0]
}
