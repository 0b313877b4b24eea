package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/utk-nsbe/movemap/internal/mapview"
	"github.com/utk-nsbe/movemap/internal/model"
	"github.com/utk-nsbe/movemap/internal/pipeline"
	"github.com/utk-nsbe/movemap/internal/report"
)

var (
	analyzeSeed       int64
	analyzeTrainSize  int
	analyzeTestSize   int
	analyzeEstimators int
	analyzeXLSX       string
	analyzeGeoJSON    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <location>",
	Short: "Score displacement risk for a location",
	Long:  "Geocodes the location, resolves its census tract, fits a risk model on synthetic tract data, and prints the scored result as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		seed := cfg.Model.Seed
		if analyzeSeed != 0 {
			seed = analyzeSeed
		}
		opts := pipelineOptions(seed)
		if analyzeTrainSize > 0 {
			opts.TrainSize = analyzeTrainSize
		}
		if analyzeTestSize > 0 {
			opts.TestSize = analyzeTestSize
		}
		if analyzeEstimators > 0 {
			opts.Estimators = analyzeEstimators
		}

		run, err := runAnalysis(ctx, env, args[0], opts)
		if err != nil {
			return err
		}
		if run.Status != model.RunStatusComplete {
			return eris.Errorf("analysis %s: %s", run.Status, run.Error)
		}

		if analyzeXLSX != "" {
			if err := report.Write(analyzeXLSX, run.Result, run.Result.Train); err != nil {
				return err
			}
			zap.L().Info("report written", zap.String("path", analyzeXLSX))
		}
		if analyzeGeoJSON != "" {
			if err := mapview.Write(analyzeGeoJSON, run.Result); err != nil {
				return err
			}
			zap.L().Info("map written", zap.String("path", analyzeGeoJSON))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run.Result)
	},
}

func init() {
	analyzeCmd.Flags().Int64Var(&analyzeSeed, "seed", 0, "random seed (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeTrainSize, "train-size", 0, "training dataset size (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeTestSize, "test-size", 0, "test dataset size (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeEstimators, "estimators", 0, "number of trees (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "export", "", "write XLSX report to path")
	analyzeCmd.Flags().StringVar(&analyzeGeoJSON, "geojson", "", "write GeoJSON map document to path")
	rootCmd.AddCommand(analyzeCmd)
}

// runAnalysis executes the pipeline for one query with run bookkeeping in
// the store. Resolution misses fail the run with status not_found rather
// than returning an error; infrastructure failures return the error after
// marking the run failed.
func runAnalysis(ctx context.Context, env *analysisEnv, query string, opts pipeline.Options) (*model.Run, error) {
	run, err := env.Store.CreateRun(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "create run")
	}
	log := zap.L().With(zap.String("run_id", run.ID), zap.String("query", query))

	if err := env.Store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		return nil, eris.Wrap(err, "mark run running")
	}

	p := pipeline.New(env.Resolver, opts)
	result, err := p.Analyze(ctx, query)
	if err != nil {
		status := model.RunStatusFailed
		if errors.Is(err, pipeline.ErrLocationNotFound) || errors.Is(err, pipeline.ErrAreaNotFound) {
			status = model.RunStatusNotFound
		}
		if fErr := env.Store.FailRun(ctx, run.ID, status, err.Error()); fErr != nil {
			log.Warn("failed to record run failure", zap.Error(fErr))
		}
		run.Status = status
		run.Error = err.Error()
		if status == model.RunStatusNotFound {
			log.Warn("location unresolved", zap.Error(err))
			return run, nil
		}
		return run, err
	}

	if err := env.Store.CompleteRun(ctx, run.ID, result); err != nil {
		return nil, eris.Wrap(err, "complete run")
	}
	run.Status = model.RunStatusComplete
	run.Result = result
	return run, nil
}
