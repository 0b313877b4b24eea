package mapview

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utk-nsbe/movemap/internal/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Query:     "Knoxville, TN",
		Latitude:  35.96,
		Longitude: -83.92,
		TractID:   "47093001500",
		County:    "Knox",
		State:     "TN",
		Target: model.FeaturedRecord{
			CensusRecord: model.CensusRecord{
				AreaID:       "47093001500",
				Label:        "Knoxville, TN",
				MedianIncome: 48250,
				PovertyCount: 430,
				EvictionRate: 3.7,
			},
			RiskScore: 22.0,
		},
		PredictedRisk: 23.4,
		MAE:           2.1,
		Color:         "#f1c40f",
	}
}

func TestDocument(t *testing.T) {
	fc, err := Document(sampleResult())
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "47093001500", f.ID)
	assert.Equal(t, "#f1c40f", f.Properties["marker-color"])
	assert.Equal(t, "low", f.Properties["risk_band"])
	assert.Equal(t, 23.4, f.Properties["predicted_risk"])

	coords := f.Geometry.FlatCoords()
	require.Len(t, coords, 2)
	assert.Equal(t, -83.92, coords[0]) // GeoJSON order: lon, lat
	assert.Equal(t, 35.96, coords[1])
}

func TestPopupHTML(t *testing.T) {
	html := PopupHTML(sampleResult())
	assert.Contains(t, html, "<b>Knoxville, TN</b>")
	assert.Contains(t, html, "Median Income: $48,250")
	assert.Contains(t, html, "Poverty Count: 430")
	assert.Contains(t, html, "Eviction Rate: 3.7%")
	assert.Contains(t, html, "Risk Score: <b>23.4</b>")
}

func TestWriteProducesValidGeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marker.geojson")
	require.NoError(t, Write(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 1)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{-83.92, 35.96}, doc.Features[0].Geometry.Coordinates)
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in       int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{48250, "48,250"},
		{1234567, "1,234,567"},
		{-48250, "-48,250"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, groupThousands(tt.in), "%d", tt.in)
	}
}
