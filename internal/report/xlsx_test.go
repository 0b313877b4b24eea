package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/utk-nsbe/movemap/internal/feature"
	"github.com/utk-nsbe/movemap/internal/model"
	"github.com/utk-nsbe/movemap/internal/synth"
)

func TestWriteWorkbook(t *testing.T) {
	gen := synth.NewGenerator(42)
	train, err := feature.Derive(gen.Generate("47093001500", "Knoxville, TN", 10))
	require.NoError(t, err)

	result := &model.AnalysisResult{
		Query:   "Knoxville, TN",
		TractID: "47093001500",
		County:  "Knox",
		State:   "TN",
		Target: model.FeaturedRecord{
			CensusRecord: model.CensusRecord{
				Label:        "Knoxville, TN",
				MedianIncome: 48250,
				PovertyCount: 430,
			},
			RiskScore: 22.0,
		},
		PredictedRisk: 23.4,
		MAE:           2.1,
		Color:         "#f1c40f",
		TrainSize:     10,
		TestSize:      5,
		Seed:          42,
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Write(path, result, train))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	summary := f.Sheets[0]
	assert.Equal(t, "Summary", summary.Name)
	assert.Equal(t, "query", summary.Rows[0].Cells[0].Value)
	assert.Equal(t, "Knoxville, TN", summary.Rows[0].Cells[1].Value)

	data := f.Sheets[1]
	assert.Equal(t, "Training Data", data.Name)
	// Header plus one row per training record.
	assert.Len(t, data.Rows, 11)
	assert.Equal(t, "label", data.Rows[0].Cells[0].Value)
	assert.Equal(t, "Knoxville, TN #1", data.Rows[1].Cells[0].Value)
}
