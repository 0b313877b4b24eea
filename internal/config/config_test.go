package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "movemap.db", cfg.Store.Path)
	assert.Equal(t, 30, cfg.Store.CacheTTLDays)
	assert.Equal(t, "https://nominatim.openstreetmap.org/search", cfg.Geocode.NominatimURL)
	assert.Equal(t, "https://geo.fcc.gov/api/census/area", cfg.Geocode.FCCAreaURL)
	assert.InDelta(t, 1.0, cfg.Geocode.RateRPS, 0.001)
	assert.Equal(t, 30, cfg.Geocode.TimeoutSecs)
	assert.Equal(t, 50, cfg.Model.TrainSize)
	assert.Equal(t, 20, cfg.Model.TestSize)
	assert.Equal(t, 200, cfg.Model.Estimators)
	assert.Equal(t, int64(42), cfg.Model.Seed)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrent)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  path: /tmp/other.db
log:
  level: debug
  format: console
server:
  port: 9090
model:
  train_size: 80
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 80, cfg.Model.TrainSize)
	// Defaults still apply for unset values
	assert.Equal(t, 20, cfg.Model.TestSize)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
model:
  seed: 7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("MOVEMAP_LOG_LEVEL", "warn")
	t.Setenv("MOVEMAP_MODEL_SEED", "99")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, int64(99), cfg.Model.Seed)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("MOVEMAP_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Path = "movemap.db"
	cfg.Geocode.UserAgent = "movemap/test"
	cfg.Geocode.RateRPS = 1.0
	cfg.Model.TrainSize = 50
	cfg.Model.TestSize = 20
	cfg.Model.Estimators = 200
	cfg.Batch.MaxConcurrent = 4
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateAnalyze_AllPresent(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateAnalyze_MissingFields(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Path = ""
	cfg.Geocode.UserAgent = ""

	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.path is required")
	assert.Contains(t, err.Error(), "geocode.user_agent is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateEstimatorBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Model.Estimators = 0
	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model.estimators must be between 1 and 2000")

	cfg.Model.Estimators = 2001
	err = cfg.Validate("analyze")
	assert.Error(t, err)

	cfg.Model.Estimators = 2000
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrent = 0
	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch.max_concurrent must be between 1 and 32")

	cfg.Batch.MaxConcurrent = 33
	err = cfg.Validate("analyze")
	assert.Error(t, err)

	cfg.Batch.MaxConcurrent = 32
	assert.NoError(t, cfg.Validate("analyze"))
}
