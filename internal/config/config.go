// Package config loads application configuration and bootstraps logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the local SQLite store.
type StoreConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`
	CacheTTLDays int    `yaml:"cache_ttl_days" mapstructure:"cache_ttl_days"`
}

// GeocodeConfig configures the geocoding collaborators.
type GeocodeConfig struct {
	NominatimURL string  `yaml:"nominatim_url" mapstructure:"nominatim_url"`
	FCCAreaURL   string  `yaml:"fcc_area_url" mapstructure:"fcc_area_url"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateRPS      float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ModelConfig configures dataset sizes and the estimator.
type ModelConfig struct {
	TrainSize  int   `yaml:"train_size" mapstructure:"train_size"`
	TestSize   int   `yaml:"test_size" mapstructure:"test_size"`
	Estimators int   `yaml:"estimators" mapstructure:"estimators"`
	Seed       int64 `yaml:"seed" mapstructure:"seed"`
}

// BatchConfig configures batch analysis.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MOVEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "movemap.db")
	v.SetDefault("store.cache_ttl_days", 30)
	v.SetDefault("geocode.nominatim_url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocode.fcc_area_url", "https://geo.fcc.gov/api/census/area")
	v.SetDefault("geocode.user_agent", "movemap/1.0 (housing risk explorer)")
	v.SetDefault("geocode.rate_rps", 1.0)
	v.SetDefault("geocode.timeout_secs", 30)
	v.SetDefault("model.train_size", 50)
	v.SetDefault("model.test_size", 20)
	v.SetDefault("model.estimators", 200)
	v.SetDefault("model.seed", 42)
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable for the given mode.
// Modes: "analyze" (single query or batch), "serve" (HTTP server).
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Store.Path == "" {
		problems = append(problems, "store.path is required")
	}
	if c.Geocode.UserAgent == "" {
		problems = append(problems, "geocode.user_agent is required")
	}
	if c.Geocode.RateRPS <= 0 {
		problems = append(problems, "geocode.rate_rps must be > 0")
	}
	if c.Model.TrainSize < 1 {
		problems = append(problems, "model.train_size must be >= 1")
	}
	if c.Model.TestSize < 0 {
		problems = append(problems, "model.test_size must be >= 0")
	}
	if c.Model.Estimators < 1 || c.Model.Estimators > 2000 {
		problems = append(problems, "model.estimators must be between 1 and 2000")
	}
	if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 32 {
		problems = append(problems, "batch.max_concurrent must be between 1 and 32")
	}

	switch mode {
	case "analyze":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
