// Package risk fits a regression ensemble on featured census records and
// evaluates it on a held-out test set.
package risk

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/utk-nsbe/movemap/internal/model"
)

const (
	// MinFitRecords is the smallest dataset a model is fitted on. Below
	// this the fit is statistically meaningless and the fallback path
	// copies ground truth instead.
	MinFitRecords = 5

	// DefaultEstimators is the reference ensemble size.
	DefaultEstimators = 200
)

// Feature order is part of the model contract: input and prediction
// vectors must agree on it.
//
//	[median_income, poverty_count, eviction_rate, rent_income_ratio]
const numFeatures = 4

// Config controls model fitting.
type Config struct {
	Estimators int
	Seed       int64
}

// Outcome is the tagged result of Fit: either a fitted ensemble or the
// explicit small-sample fallback. A fallback outcome carries no model, so
// there is no fitted state to mispredict with.
type Outcome struct {
	fitted   *forest
	Fallback bool
}

// Fit trains the ensemble on the training set. Datasets smaller than
// MinFitRecords produce a fallback outcome; an empty set is an error.
func Fit(train model.Dataset, cfg Config) (*Outcome, error) {
	if len(train) == 0 {
		return nil, eris.New("risk: fit requires at least one record")
	}
	if len(train) < MinFitRecords {
		zap.L().Debug("risk: small-sample fallback",
			zap.Int("records", len(train)),
			zap.Int("min_fit_records", MinFitRecords),
		)
		return &Outcome{Fallback: true}, nil
	}

	estimators := cfg.Estimators
	if estimators <= 0 {
		estimators = DefaultEstimators
	}

	X := make([][]float64, len(train))
	y := make([]float64, len(train))
	for i, rec := range train {
		X[i] = featureVector(rec)
		y[i] = rec.RiskScore
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	f := growForest(X, y, estimators, rng)

	zap.L().Debug("risk: model fitted",
		zap.Int("records", len(train)),
		zap.Int("estimators", estimators),
		zap.Int64("seed", cfg.Seed),
	)

	return &Outcome{fitted: f}, nil
}

// Evaluate computes the mean absolute error against the true risk scores of
// a held-out test set never used in Fit. Fallback outcomes evaluate to 0.
func (o *Outcome) Evaluate(test model.Dataset) float64 {
	if o.Fallback || len(test) == 0 {
		return 0
	}
	diffs := make([]float64, len(test))
	for i, rec := range test {
		diffs[i] = math.Abs(o.fitted.predict(featureVector(rec)) - rec.RiskScore)
	}
	return stat.Mean(diffs, nil)
}

// Predict attaches a predicted risk to every record of the target set. For
// a fallback outcome the ground-truth risk score is copied instead.
func (o *Outcome) Predict(target model.Dataset) model.EvaluationResult {
	predicted := make([]float64, len(target))
	for i, rec := range target {
		if o.Fallback {
			predicted[i] = rec.RiskScore
		} else {
			predicted[i] = o.fitted.predict(featureVector(rec))
		}
	}
	return model.EvaluationResult{Predicted: predicted, Fallback: o.Fallback}
}

// featureVector builds the fixed-order feature vector for one record.
// NaN components are substituted with 0 so undefined values never reach
// the estimator.
func featureVector(rec model.FeaturedRecord) []float64 {
	v := []float64{
		rec.MedianIncome,
		float64(rec.PovertyCount),
		rec.EvictionRate,
		rec.RentIncomeRatio,
	}
	for i := range v {
		if math.IsNaN(v[i]) {
			v[i] = 0
		}
	}
	return v
}
