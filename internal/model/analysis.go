package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
	RunStatusNotFound RunStatus = "not_found" // location or tract unresolvable
)

// AnalysisResult is the final output of one pipeline invocation: the
// enriched target record plus model evaluation and display data. It is an
// explicit value owned by the caller; nothing about a run is kept in
// process-wide state.
type AnalysisResult struct {
	Query     string  `json:"query"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TractID   string  `json:"tract_id"`
	County    string  `json:"county"`
	State     string  `json:"state"`

	Target        FeaturedRecord `json:"target"`
	PredictedRisk float64        `json:"predicted_risk"`
	MAE           float64        `json:"mae"`
	Fallback      bool           `json:"fallback"` // small-sample path, no model fitted
	Color         string         `json:"color"`    // display hex, e.g. "#2ecc71"

	TrainSize int   `json:"train_size"`
	TestSize  int   `json:"test_size"`
	Seed      int64 `json:"seed"`

	// Train is the featured training dataset, kept for report export.
	// Regenerable from the seed, so it is not persisted.
	Train Dataset `json:"-"`
}

// Run represents a persisted analysis run.
type Run struct {
	ID        string          `json:"id"`
	Query     string          `json:"query"`
	Status    RunStatus       `json:"status"`
	Result    *AnalysisResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
