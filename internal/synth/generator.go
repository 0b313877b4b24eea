// Package synth generates randomized pseudo-census records for an area,
// used when real demographic data is unavailable.
package synth

import (
	"fmt"
	"math/rand"

	"github.com/utk-nsbe/movemap/internal/model"
)

// Attribute ranges for generated dataset rows. All values are sampled
// i.i.d. uniformly within these bounds.
const (
	incomeMin     = 30000
	incomeMax     = 110000
	povertyMin    = 50
	povertyMax    = 1200
	evictionMin   = 0.5
	evictionMax   = 12.0
	rentChangeMin = 0.0
	rentChangeMax = 0.15
)

// Narrower ranges for the single target record representing the queried
// location itself, so the target never sits at a dataset extreme.
const (
	targetIncomeMin     = 35000
	targetIncomeMax     = 95000
	targetPovertyMin    = 100
	targetPovertyMax    = 900
	targetEvictionMin   = 1.0
	targetEvictionMax   = 10.0
	targetRentChangeMin = 0.02
	targetRentChangeMax = 0.1
)

// Generator produces synthetic census records from an explicit, seedable
// random source. Each pipeline run owns its own Generator; nothing is
// shared across concurrent runs.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded for reproducible output.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces count independent records for one area. The label is
// suffixed with a sequence index so rows stay distinguishable; the area id
// is shared across all rows. count == 0 yields an empty slice.
func (g *Generator) Generate(areaID, label string, count int) []model.CensusRecord {
	records := make([]model.CensusRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, model.CensusRecord{
			AreaID:        areaID,
			Label:         fmt.Sprintf("%s #%d", label, i+1),
			MedianIncome:  float64(g.intBetween(incomeMin, incomeMax)),
			PovertyCount:  g.intBetween(povertyMin, povertyMax),
			EvictionRate:  g.floatBetween(evictionMin, evictionMax),
			RentChange12M: g.floatBetween(rentChangeMin, rentChangeMax),
		})
	}
	return records
}

// GenerateTarget produces the single record representing the queried
// location, using the narrower single-sample ranges.
func (g *Generator) GenerateTarget(areaID, label string) model.CensusRecord {
	return model.CensusRecord{
		AreaID:        areaID,
		Label:         label,
		MedianIncome:  float64(g.intBetween(targetIncomeMin, targetIncomeMax)),
		PovertyCount:  g.intBetween(targetPovertyMin, targetPovertyMax),
		EvictionRate:  g.floatBetween(targetEvictionMin, targetEvictionMax),
		RentChange12M: g.floatBetween(targetRentChangeMin, targetRentChangeMax),
	}
}

// intBetween returns a uniform integer in [lo, hi].
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// floatBetween returns a uniform float in [lo, hi).
func (g *Generator) floatBetween(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
