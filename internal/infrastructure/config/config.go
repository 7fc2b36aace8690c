// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	matcherCfg := cfg.Matcher.EngineConfig()
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/craftbooks/settlement-backend/internal/domain/reconciler"
)

// Config represents the entire application configuration
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Matcher MatcherConfig `yaml:"matcher"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MatcherConfig holds the reconciliation tolerances. Amount tolerances
// are decimal strings so the YAML never carries binary floats.
type MatcherConfig struct {
	ToleranceDays              int    `yaml:"tolerance_days"`
	ExactAmountTolerance       string `yaml:"exact_amount_tolerance"`
	FuzzyAmountTolerance       string `yaml:"fuzzy_amount_tolerance"`
	CombinationAmountTolerance string `yaml:"combination_amount_tolerance"`
	CombinationCandidateCap    int    `yaml:"combination_candidate_cap"`
	CombinationMaxSubsetSize   int    `yaml:"combination_max_subset_size"`
	CombinationWindowExtraDays int    `yaml:"combination_window_extra_days"`
}

// EngineConfig converts the raw matcher settings into an engine
// config, filling every unset field from the defaults.
func (m MatcherConfig) EngineConfig() (reconciler.Config, error) {
	cfg := reconciler.DefaultConfig()

	if m.ToleranceDays > 0 {
		cfg.ToleranceDays = m.ToleranceDays
	}
	if m.CombinationCandidateCap > 0 {
		cfg.CombinationCandidateCap = m.CombinationCandidateCap
	}
	if m.CombinationMaxSubsetSize > 0 {
		cfg.CombinationMaxSubsetSize = m.CombinationMaxSubsetSize
	}
	if m.CombinationWindowExtraDays > 0 {
		cfg.CombinationWindowExtraDays = m.CombinationWindowExtraDays
	}

	for _, f := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{m.ExactAmountTolerance, &cfg.ExactAmountTolerance},
		{m.FuzzyAmountTolerance, &cfg.FuzzyAmountTolerance},
		{m.CombinationAmountTolerance, &cfg.CombinationAmountTolerance},
	} {
		if f.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return cfg, fmt.Errorf("bad matcher tolerance %q: %w", f.raw, err)
		}
		*f.dst = v
	}

	return cfg, nil
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SETTLEMENT_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Storage: StorageConfig{
			DatabasePath: getEnv("SETTLEMENT_DB_PATH", "settlement.db"),
		},
		Server: ServerConfig{
			Host: getEnv("SETTLEMENT_HOST", "127.0.0.1"),
			Port: getEnvInt("SETTLEMENT_PORT", 8080),
		},
		Matcher: MatcherConfig{
			ToleranceDays:           getEnvInt("MATCHER_TOLERANCE_DAYS", 0),
			FuzzyAmountTolerance:    os.Getenv("MATCHER_FUZZY_TOLERANCE"),
			CombinationCandidateCap: getEnvInt("MATCHER_CANDIDATE_CAP", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back
// to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
