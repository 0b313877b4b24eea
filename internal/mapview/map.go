// Package mapview renders an analysis result as a GeoJSON document with a
// single risk-colored marker.
package mapview

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/utk-nsbe/movemap/internal/colorscale"
	"github.com/utk-nsbe/movemap/internal/model"
)

const markerRadius = 10

// Document builds a FeatureCollection holding the risk marker for one
// analysis result. Marker styling follows the simplestyle convention so
// common viewers pick up the color.
func Document(result *model.AnalysisResult) (*geojson.FeatureCollection, error) {
	point := geom.NewPointFlat(geom.XY, []float64{result.Longitude, result.Latitude})

	feature := &geojson.Feature{
		ID:       result.TractID,
		Geometry: point,
		Properties: map[string]interface{}{
			"title":          result.Target.Label,
			"marker-color":   result.Color,
			"radius":         markerRadius,
			"fill":           result.Color,
			"fill-opacity":   0.8,
			"popup":          PopupHTML(result),
			"tract_id":       result.TractID,
			"county":         result.County,
			"state":          result.State,
			"predicted_risk": result.PredictedRisk,
			"risk_band":      colorscale.BandFor(result.PredictedRisk),
			"mae":            result.MAE,
		},
	}

	return &geojson.FeatureCollection{Features: []*geojson.Feature{feature}}, nil
}

// PopupHTML formats the marker popup shown by map viewers.
func PopupHTML(result *model.AnalysisResult) string {
	return fmt.Sprintf(
		"<b>%s</b><br>Median Income: $%s<br>Poverty Count: %d<br>Eviction Rate: %.1f%%<br>Risk Score: <b>%.1f</b>",
		result.Target.Label,
		groupThousands(int(result.Target.MedianIncome)),
		result.Target.PovertyCount,
		result.Target.EvictionRate,
		result.PredictedRisk,
	)
}

// Write marshals the marker document to a GeoJSON file.
func Write(path string, result *model.AnalysisResult) error {
	fc, err := Document(result)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return eris.Wrap(err, "mapview: marshal feature collection")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "mapview: write %s", path)
	}
	return nil
}

// groupThousands formats n with comma separators ("48250" -> "48,250").
func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
