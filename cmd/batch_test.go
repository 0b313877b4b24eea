package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utk-nsbe/movemap/internal/model"
)

func TestReadQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := `Knoxville, TN

# a comment
  Austin, TX
Chattanooga, TN
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	queries, err := readQueries(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Knoxville, TN", "Austin, TX", "Chattanooga, TN"}, queries)
}

func TestReadQueriesMissingFile(t *testing.T) {
	_, err := readQueries(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestProcessBatchEmpty(t *testing.T) {
	err := processBatch(context.Background(), nil, 0, 2, func(context.Context, string, int) (*model.Run, error) {
		t.Fatal("analyze should not be called")
		return nil, nil
	})
	assert.NoError(t, err)
}

func TestProcessBatchAppliesLimit(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}

	err := processBatch(context.Background(), []string{"a", "b", "c", "d"}, 2, 2, func(_ context.Context, query string, index int) (*model.Run, error) {
		mu.Lock()
		seen[query] = index
		mu.Unlock()
		return &model.Run{Status: model.RunStatusComplete, Result: &model.AnalysisResult{Query: query}}, nil
	})
	require.NoError(t, err)

	assert.Len(t, seen, 2)
	assert.Contains(t, seen, "a")
	assert.Contains(t, seen, "b")
}

func TestProcessBatchDistinctIndexes(t *testing.T) {
	var mu sync.Mutex
	indexes := map[int]bool{}

	err := processBatch(context.Background(), []string{"a", "b", "c"}, 0, 3, func(_ context.Context, _ string, index int) (*model.Run, error) {
		mu.Lock()
		indexes[index] = true
		mu.Unlock()
		return &model.Run{Status: model.RunStatusComplete, Result: &model.AnalysisResult{}}, nil
	})
	require.NoError(t, err)

	// Every query gets a distinct index, so per-query seeds never collide.
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, indexes)
}

func TestProcessBatchContinuesOnFailure(t *testing.T) {
	var mu sync.Mutex
	var calls int

	err := processBatch(context.Background(), []string{"bad", "good"}, 0, 1, func(_ context.Context, query string, _ int) (*model.Run, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		if query == "bad" {
			return nil, eris.New("boom")
		}
		return &model.Run{Status: model.RunStatusComplete, Result: &model.AnalysisResult{}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestProcessBatchCountsUnresolved(t *testing.T) {
	err := processBatch(context.Background(), []string{"nowhere"}, 0, 1, func(context.Context, string, int) (*model.Run, error) {
		return &model.Run{Status: model.RunStatusNotFound}, nil
	})
	assert.NoError(t, err)
}
