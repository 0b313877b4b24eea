// Package model defines the core data types shared across the analysis pipeline.
package model

// CensusRecord is one demographic/housing sample for an administrative area.
// Records are created by the synthetic generator (or a future real-data
// source) and are treated as immutable once built.
//
// EvictionRate and RentChange12M are optional inputs: a missing value is
// represented as NaN and contributes zero to the derived risk score.
type CensusRecord struct {
	AreaID        string  `json:"area_id"`
	Label         string  `json:"label"`
	MedianIncome  float64 `json:"median_income"`
	PovertyCount  int     `json:"poverty_count"`
	EvictionRate  float64 `json:"eviction_rate"`   // percent, ~[0,12]
	RentChange12M float64 `json:"rent_change_12m"` // fraction, ~[0,0.15]
}

// FeaturedRecord is a CensusRecord extended with derived fields.
// RiskScore is a pure function of the four base attributes.
type FeaturedRecord struct {
	CensusRecord
	RentIncomeRatio float64 `json:"rent_income_ratio"`
	RiskScore       float64 `json:"risk_score"`
}

// Dataset is an ordered sequence of featured records. Train and test
// datasets are generated independently, never split from one set.
type Dataset []FeaturedRecord

// RiskScores returns the ground-truth risk scores in dataset order.
func (d Dataset) RiskScores() []float64 {
	scores := make([]float64, len(d))
	for i, r := range d {
		scores[i] = r.RiskScore
	}
	return scores
}

// EvaluationResult holds per-record predictions for a target set plus the
// mean absolute error measured on the held-out test set. Fallback marks the
// degenerate small-sample path, where predictions are copied ground truth.
type EvaluationResult struct {
	Predicted []float64 `json:"predicted"`
	MAE       float64   `json:"mae"`
	Fallback  bool      `json:"fallback"`
}
