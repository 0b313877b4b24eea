package synth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCount(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"zero records", 0},
		{"single record", 1},
		{"reference train size", 50},
		{"reference test size", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(1)
			records := g.Generate("47093001500", "Knoxville, TN", tt.count)
			assert.Len(t, records, tt.count)
		})
	}
}

func TestGenerateRanges(t *testing.T) {
	g := NewGenerator(42)
	records := g.Generate("T1", "Test Area", 200)
	require.Len(t, records, 200)

	for _, r := range records {
		assert.Equal(t, "T1", r.AreaID)
		assert.GreaterOrEqual(t, r.MedianIncome, float64(incomeMin))
		assert.LessOrEqual(t, r.MedianIncome, float64(incomeMax))
		assert.GreaterOrEqual(t, r.PovertyCount, povertyMin)
		assert.LessOrEqual(t, r.PovertyCount, povertyMax)
		assert.GreaterOrEqual(t, r.EvictionRate, evictionMin)
		assert.LessOrEqual(t, r.EvictionRate, evictionMax)
		assert.GreaterOrEqual(t, r.RentChange12M, rentChangeMin)
		assert.LessOrEqual(t, r.RentChange12M, rentChangeMax)
	}
}

func TestGenerateLabelSuffix(t *testing.T) {
	g := NewGenerator(7)
	records := g.Generate("T1", "Knoxville, TN", 3)
	require.Len(t, records, 3)

	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("Knoxville, TN #%d", i+1), r.Label)
	}
}

func TestGenerateReproducible(t *testing.T) {
	first := NewGenerator(42).Generate("T1", "A", 25)
	second := NewGenerator(42).Generate("T1", "A", 25)
	assert.Equal(t, first, second)

	different := NewGenerator(43).Generate("T1", "A", 25)
	assert.NotEqual(t, first, different)
}

func TestGenerateTarget(t *testing.T) {
	g := NewGenerator(42)
	rec := g.GenerateTarget("47093001500", "Knoxville, TN")

	assert.Equal(t, "47093001500", rec.AreaID)
	assert.Equal(t, "Knoxville, TN", rec.Label) // no sequence suffix
	assert.GreaterOrEqual(t, rec.MedianIncome, float64(targetIncomeMin))
	assert.LessOrEqual(t, rec.MedianIncome, float64(targetIncomeMax))
	assert.GreaterOrEqual(t, rec.PovertyCount, targetPovertyMin)
	assert.LessOrEqual(t, rec.PovertyCount, targetPovertyMax)
	assert.GreaterOrEqual(t, rec.EvictionRate, targetEvictionMin)
	assert.LessOrEqual(t, rec.EvictionRate, targetEvictionMax)
	assert.GreaterOrEqual(t, rec.RentChange12M, targetRentChangeMin)
	assert.LessOrEqual(t, rec.RentChange12M, targetRentChangeMax)
}
