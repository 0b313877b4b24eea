// Package report exports an analysis run to an XLSX workbook: a summary
// sheet for the target plus the full featured training dataset.
package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/utk-nsbe/movemap/internal/colorscale"
	"github.com/utk-nsbe/movemap/internal/model"
)

var datasetHeader = []string{
	"label", "median_income", "poverty_count", "eviction_rate",
	"rent_change_12m", "rent_income_ratio", "risk_score",
}

// Write saves the analysis result and its training dataset to path.
func Write(path string, result *model.AnalysisResult, train model.Dataset) error {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, result); err != nil {
		return err
	}
	if err := addDatasetSheet(f, train); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func addSummarySheet(f *xlsx.File, result *model.AnalysisResult) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	rows := []struct {
		key   string
		value any
	}{
		{"query", result.Query},
		{"tract_id", result.TractID},
		{"county", result.County},
		{"state", result.State},
		{"latitude", result.Latitude},
		{"longitude", result.Longitude},
		{"median_income", result.Target.MedianIncome},
		{"poverty_count", result.Target.PovertyCount},
		{"eviction_rate", result.Target.EvictionRate},
		{"rent_change_12m", result.Target.RentChange12M},
		{"rent_income_ratio", result.Target.RentIncomeRatio},
		{"risk_score", result.Target.RiskScore},
		{"predicted_risk", result.PredictedRisk},
		{"risk_band", colorscale.BandFor(result.PredictedRisk)},
		{"mae", result.MAE},
		{"fallback", result.Fallback},
		{"color", result.Color},
		{"train_size", result.TrainSize},
		{"test_size", result.TestSize},
		{"seed", result.Seed},
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.key
		setCell(row.AddCell(), r.value)
	}
	return nil
}

func addDatasetSheet(f *xlsx.File, train model.Dataset) error {
	sheet, err := f.AddSheet("Training Data")
	if err != nil {
		return eris.Wrap(err, "report: add dataset sheet")
	}

	header := sheet.AddRow()
	for _, h := range datasetHeader {
		header.AddCell().Value = h
	}

	for _, rec := range train {
		row := sheet.AddRow()
		row.AddCell().Value = rec.Label
		row.AddCell().SetFloat(rec.MedianIncome)
		row.AddCell().SetInt(rec.PovertyCount)
		row.AddCell().SetFloat(rec.EvictionRate)
		row.AddCell().SetFloat(rec.RentChange12M)
		row.AddCell().SetFloat(rec.RentIncomeRatio)
		row.AddCell().SetFloat(rec.RiskScore)
	}
	return nil
}

func setCell(cell *xlsx.Cell, v any) {
	switch val := v.(type) {
	case string:
		cell.Value = val
	case int:
		cell.SetInt(val)
	case int64:
		cell.SetInt64(val)
	case float64:
		cell.SetFloat(val)
	case bool:
		cell.SetBool(val)
	}
}
