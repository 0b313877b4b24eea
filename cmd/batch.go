package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/utk-nsbe/movemap/internal/model"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Score displacement risk for a list of locations",
	Long:  "Reads newline-delimited location queries from a file and analyzes them concurrently. Blank lines and lines starting with '#' are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		queries, err := readQueries(args[0])
		if err != nil {
			return err
		}

		return processBatch(ctx, queries, batchLimit, cfg.Batch.MaxConcurrent, func(ctx context.Context, query string, index int) (*model.Run, error) {
			// Each line gets its own seed so two queries never share a
			// synthetic dataset within one batch.
			return runAnalysis(ctx, env, query, pipelineOptions(cfg.Model.Seed+int64(index)))
		})
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of queries to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// readQueries loads newline-delimited queries, skipping blanks and comments.
func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: open %s", path)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "batch: read %s", path)
	}
	return queries, nil
}

// analyzeFunc is the callback signature for scoring one query.
type analyzeFunc func(ctx context.Context, query string, index int) (*model.Run, error)

// processBatch applies limit, then analyzes queries concurrently with the
// given function. Individual failures do not abort the batch.
func processBatch(ctx context.Context, queries []string, limit, concurrency int, analyze analyzeFunc) error {
	if len(queries) == 0 {
		zap.L().Info("no queries to process")
		return nil
	}

	if limit > 0 && len(queries) > limit {
		queries = queries[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("queries", len(queries)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, unresolved, failed atomic.Int64

	for i, query := range queries {
		g.Go(func() error {
			log := zap.L().With(zap.String("query", query))

			run, err := analyze(gctx, query, i)
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}
			if run.Status == model.RunStatusNotFound {
				unresolved.Add(1)
				return nil
			}

			succeeded.Add(1)
			log.Info("analysis complete",
				zap.String("tract_id", run.Result.TractID),
				zap.Float64("predicted_risk", run.Result.PredictedRisk),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("unresolved", unresolved.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
