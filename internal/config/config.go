// Package config loads application configuration from file and
// environment and initializes the global logger.
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
	Store   StoreConfig    `yaml:"store" mapstructure:"store"`
	Geocode GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Dedupe  DedupeConfig   `yaml:"dedupe" mapstructure:"dedupe"`
	Fetch   FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Sources []SourceConfig `yaml:"sources" mapstructure:"sources"`
	Server  ServerConfig   `yaml:"server" mapstructure:"server"`
	Log     LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the catalog storage backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GeocodeConfig configures address geocoding.
type GeocodeConfig struct {
	Provider  string  `yaml:"provider" mapstructure:"provider"` // stub or census
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// DedupeConfig configures deduplication heuristics. The threshold and
// weights have no documented derivation; they stay tunable rather than
// hard-coded.
type DedupeConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// FetchConfig configures the shared download layer.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// SourceConfig declares one ingestion source.
type SourceConfig struct {
	Name         string `yaml:"name" mapstructure:"name"`
	Kind         string `yaml:"kind" mapstructure:"kind"` // yaml, csv, xlsx, json
	Tier         int    `yaml:"tier" mapstructure:"tier"`
	Cadence      string `yaml:"cadence" mapstructure:"cadence"`
	Path         string `yaml:"path" mapstructure:"path"`
	URL          string `yaml:"url" mapstructure:"url"`
	Sheet        string `yaml:"sheet" mapstructure:"sheet"`
	AuthToken    string `yaml:"auth_token" mapstructure:"auth_token"`
	RequiresAuth bool   `yaml:"requires_auth" mapstructure:"requires_auth"`
}

// ServerConfig configures the ingest webhook server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "catalog.db")
	v.SetDefault("geocode.provider", "stub")
	v.SetDefault("geocode.rate_limit", 10)
	v.SetDefault("dedupe.similarity_threshold", 0.85)
	v.SetDefault("fetch.user_agent", "catalog-cli/1.0")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
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
