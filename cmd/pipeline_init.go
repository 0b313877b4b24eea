package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/utk-nsbe/movemap/internal/pipeline"
	"github.com/utk-nsbe/movemap/internal/store"
	"github.com/utk-nsbe/movemap/pkg/geocode"
)

// analysisEnv holds the store and geocoding client shared by the analyze,
// batch, and serve commands.
type analysisEnv struct {
	Store    store.Store
	Resolver geocode.Client
}

// Close releases resources held by the environment.
func (ae *analysisEnv) Close() {
	if ae.Store != nil {
		_ = ae.Store.Close()
	}
}

// initEnv validates config for the given mode, opens and migrates the store,
// and builds the geocoding client with the store as its location cache.
// Callers should defer env.Close().
func initEnv(ctx context.Context, mode string) (*analysisEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := store.NewSQLite(cfg.Store.Path, cfg.Store.CacheTTLDays)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	resolver := geocode.NewClient(
		geocode.WithUserAgent(cfg.Geocode.UserAgent),
		geocode.WithRateLimit(cfg.Geocode.RateRPS),
		geocode.WithNominatimBaseURL(cfg.Geocode.NominatimURL),
		geocode.WithFCCBaseURL(cfg.Geocode.FCCAreaURL),
		geocode.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Geocode.TimeoutSecs) * time.Second}),
		geocode.WithLocationCache(st),
	)

	return &analysisEnv{Store: st, Resolver: resolver}, nil
}

// pipelineOptions builds run options from config, with an optional seed
// override (flags or per-line batch seeds).
func pipelineOptions(seed int64) pipeline.Options {
	return pipeline.Options{
		TrainSize:  cfg.Model.TrainSize,
		TestSize:   cfg.Model.TestSize,
		Estimators: cfg.Model.Estimators,
		Seed:       seed,
	}
}
