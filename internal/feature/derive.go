// Package feature computes derived ratios and the ground-truth displacement
// risk score from raw census attributes.
package feature

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/utk-nsbe/movemap/internal/model"
)

// Risk score weights. They sum to 1.0 and are part of the scoring contract:
// changing them changes what the demonstration means.
const (
	WeightRentIncome = 0.5
	WeightPoverty    = 0.3
	WeightEviction   = 0.2
)

// Normalizers bring the raw terms onto comparable scales before weighting.
const (
	povertyNormalizer  = 1000.0
	evictionNormalizer = 10.0
	scoreScale         = 100.0
)

// ErrInvalidIncome reports a non-positive (or missing) median income, which
// makes the rent/income ratio undefined. Callers are expected to guarantee
// positive income; hitting this indicates an upstream bug, not bad luck.
var ErrInvalidIncome = eris.New("feature: median income must be positive")

// Derive computes the rent/income ratio and risk score for each record.
// Pure, no I/O. Missing optional inputs (NaN eviction rate or rent change)
// contribute zero rather than poisoning the score.
func Derive(records []model.CensusRecord) ([]model.FeaturedRecord, error) {
	out := make([]model.FeaturedRecord, 0, len(records))
	for _, rec := range records {
		fr, err := deriveOne(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, nil
}

// DeriveOne derives features for a single record.
func DeriveOne(rec model.CensusRecord) (model.FeaturedRecord, error) {
	return deriveOne(rec)
}

func deriveOne(rec model.CensusRecord) (model.FeaturedRecord, error) {
	if rec.MedianIncome <= 0 || math.IsNaN(rec.MedianIncome) {
		return model.FeaturedRecord{}, eris.Wrapf(ErrInvalidIncome, "area %s (%q)", rec.AreaID, rec.Label)
	}

	rentChange := zeroIfMissing(rec.RentChange12M)
	eviction := zeroIfMissing(rec.EvictionRate)

	ratio := rentChange / rec.MedianIncome
	score := scoreScale * (WeightRentIncome*ratio +
		WeightPoverty*(float64(rec.PovertyCount)/povertyNormalizer) +
		WeightEviction*(eviction/evictionNormalizer))

	return model.FeaturedRecord{
		CensusRecord:    rec,
		RentIncomeRatio: ratio,
		RiskScore:       score,
	}, nil
}

func zeroIfMissing(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
