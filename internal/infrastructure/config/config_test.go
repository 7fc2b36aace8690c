package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftbooks/settlement-backend/internal/domain/reconciler"
)

func TestLoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  database_path: "settlement.db"
server:
  host: "0.0.0.0"
  port: 9090
  allowed_origins:
    - "http://localhost:3000"
matcher:
  tolerance_days: 3
  fuzzy_amount_tolerance: "2.00"
  combination_candidate_cap: 25
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "settlement.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3, cfg.Matcher.ToleranceDays)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("SETTLEMENT_DB_PATH", "test.db")
	os.Setenv("MATCHER_TOLERANCE_DAYS", "5")
	defer func() {
		os.Unsetenv("SETTLEMENT_DB_PATH")
		os.Unsetenv("MATCHER_TOLERANCE_DAYS")
	}()

	cfg := LoadFromEnv()
	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 5, cfg.Matcher.ToleranceDays)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	os.Unsetenv("SETTLEMENT_DB_PATH")
	os.Unsetenv("LOG_LEVEL")

	cfg := LoadFromEnv()
	assert.Equal(t, "settlement.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	os.Setenv("SETTLEMENT_DB_PATH", "fallback.db")
	defer os.Unsetenv("SETTLEMENT_DB_PATH")

	cfg := LoadOrEnvWithPath("nonexistent.yaml")
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestEnvVarExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  database_path: "${TEST_SETTLEMENT_DB}"
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	os.Setenv("TEST_SETTLEMENT_DB", "expanded.db")
	defer os.Unsetenv("TEST_SETTLEMENT_DB")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
}

func TestEngineConfig_DefaultsWhenUnset(t *testing.T) {
	cfg, err := MatcherConfig{}.EngineConfig()
	require.NoError(t, err)

	defaults := reconciler.DefaultConfig()
	assert.Equal(t, defaults.ToleranceDays, cfg.ToleranceDays)
	assert.True(t, cfg.ExactAmountTolerance.Equal(defaults.ExactAmountTolerance))
	assert.True(t, cfg.FuzzyAmountTolerance.Equal(defaults.FuzzyAmountTolerance))
	assert.Equal(t, defaults.CombinationCandidateCap, cfg.CombinationCandidateCap)
}

func TestEngineConfig_Overrides(t *testing.T) {
	m := MatcherConfig{
		ToleranceDays:              4,
		FuzzyAmountTolerance:       "2.50",
		CombinationCandidateCap:    10,
		CombinationAmountTolerance: "0.10",
	}
	cfg, err := m.EngineConfig()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.ToleranceDays)
	assert.Equal(t, "2.5", cfg.FuzzyAmountTolerance.String())
	assert.Equal(t, 10, cfg.CombinationCandidateCap)
	assert.Equal(t, "0.1", cfg.CombinationAmountTolerance.String())
}

func TestEngineConfig_RejectsBadDecimal(t *testing.T) {
	_, err := MatcherConfig{FuzzyAmountTolerance: "not-a-number"}.EngineConfig()
	assert.Error(t, err)
}
