// Package pipeline sequences geocoding, synthetic data generation, feature
// derivation, model fitting and color selection into one analysis run.
package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/utk-nsbe/movemap/internal/colorscale"
	"github.com/utk-nsbe/movemap/internal/feature"
	"github.com/utk-nsbe/movemap/internal/model"
	"github.com/utk-nsbe/movemap/internal/risk"
	"github.com/utk-nsbe/movemap/internal/synth"
	"github.com/utk-nsbe/movemap/pkg/geocode"
)

// Upstream resolution failures. These short-circuit the run before any
// modeling happens; retrying is the collaborator's business, not ours.
var (
	ErrLocationNotFound = eris.New("pipeline: location not found")
	ErrAreaNotFound     = eris.New("pipeline: no census area for location")
)

// Reference dataset sizes.
const (
	DefaultTrainSize = 50
	DefaultTestSize  = 20
	DefaultSeed      = 42
)

// Options control one analysis run.
type Options struct {
	TrainSize  int
	TestSize   int
	Estimators int
	Seed       int64

	// Target, when set, is used as the query's own record instead of a
	// fallback-generated one (e.g. supplied by a real-data source). Its
	// AreaID and Label are filled in from the resolved area if empty.
	Target *model.CensusRecord
}

func (o Options) withDefaults() Options {
	if o.TrainSize <= 0 {
		o.TrainSize = DefaultTrainSize
	}
	if o.TestSize <= 0 {
		o.TestSize = DefaultTestSize
	}
	if o.Estimators <= 0 {
		o.Estimators = risk.DefaultEstimators
	}
	return o
}

// Pipeline runs the analysis. It holds only collaborators and options; each
// Analyze call builds its own generator, datasets and model, so concurrent
// runs share nothing.
type Pipeline struct {
	resolver geocode.Client
	opts     Options
}

// New creates a Pipeline with the given resolver and options.
func New(resolver geocode.Client, opts Options) *Pipeline {
	return &Pipeline{resolver: resolver, opts: opts.withDefaults()}
}

// Analyze resolves a location query and produces a scored analysis result.
func (p *Pipeline) Analyze(ctx context.Context, query string) (*model.AnalysisResult, error) {
	log := zap.L().With(zap.String("query", query))

	loc, err := p.resolver.Locate(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: locate")
	}
	if !loc.Matched {
		return nil, eris.Wrapf(ErrLocationNotFound, "query %q", query)
	}

	area, err := p.resolver.AreaForPoint(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: area lookup")
	}
	if !area.Matched {
		return nil, eris.Wrapf(ErrAreaNotFound, "query %q at %.5f,%.5f", query, loc.Latitude, loc.Longitude)
	}

	label := displayLabel(query)
	gen := synth.NewGenerator(p.opts.Seed)

	// Train and test are generated independently so the model is scored on
	// genuinely unseen samples, never on a split of its own training data.
	train, err := feature.Derive(gen.Generate(area.TractID, label, p.opts.TrainSize))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: derive train features")
	}
	test, err := feature.Derive(gen.Generate(area.TractID, label, p.opts.TestSize))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: derive test features")
	}
	targetRec := gen.GenerateTarget(area.TractID, label)
	if p.opts.Target != nil {
		targetRec = *p.opts.Target
		if targetRec.AreaID == "" {
			targetRec.AreaID = area.TractID
		}
		if targetRec.Label == "" {
			targetRec.Label = label
		}
	}
	target, err := feature.DeriveOne(targetRec)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: derive target features")
	}

	outcome, err := risk.Fit(train, risk.Config{
		Estimators: p.opts.Estimators,
		Seed:       p.opts.Seed,
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fit model")
	}

	mae := outcome.Evaluate(test)
	prediction := outcome.Predict(model.Dataset{target})
	predictedRisk := prediction.Predicted[0]

	result := &model.AnalysisResult{
		Query:         query,
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		TractID:       area.TractID,
		County:        area.County,
		State:         area.State,
		Target:        target,
		PredictedRisk: predictedRisk,
		MAE:           mae,
		Fallback:      prediction.Fallback,
		Color:         colorscale.ColorFor(predictedRisk),
		TrainSize:     p.opts.TrainSize,
		TestSize:      p.opts.TestSize,
		Seed:          p.opts.Seed,
		Train:         train,
	}

	log.Info("analysis complete",
		zap.String("tract_id", area.TractID),
		zap.Float64("predicted_risk", predictedRisk),
		zap.Float64("mae", mae),
		zap.Bool("fallback", prediction.Fallback),
		zap.String("color", result.Color),
	)
	return result, nil
}

// displayLabel tidies a raw query for display: trimmed, with each word
// title-cased ("knoxville, tn" -> "Knoxville, Tn" is avoided by keeping
// all-upper tokens as-is).
func displayLabel(query string) string {
	caser := cases.Title(language.AmericanEnglish)
	words := strings.Fields(query)
	for i, w := range words {
		if w != strings.ToUpper(w) {
			words[i] = caser.String(w)
		}
	}
	return strings.Join(words, " ")
}
