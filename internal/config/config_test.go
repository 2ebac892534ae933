package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, int64(1024), cfg.LLM.MaxTokens)
	assert.Equal(t, 3, cfg.LLM.BreakerThreshold)
	assert.Equal(t, 60, cfg.LLM.BreakerCooldownSecs)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Empty(t, cfg.Anthropic.Key)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3", cfg.Ollama.Model)
	assert.InDelta(t, 0.4, cfg.Ranking.Weights.MonthlyPatients, 0.001)
	assert.InDelta(t, 0.3, cfg.Ranking.Weights.EnrollmentDays, 0.001)
	assert.InDelta(t, 0.2, cfg.Ranking.Weights.EDCExperience, 0.001)
	assert.InDelta(t, 0.1, cfg.Ranking.Weights.ActiveTrials, 0.001)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 120, cfg.Server.TimeoutSecs)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
llm:
  provider: anthropic
anthropic:
  key: sk-ant-test
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, "llama3", cfg.Ollama.Model)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
llm:
  provider: anthropic
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("TRIAL_LLM_PROVIDER", "offline")
	t.Setenv("TRIAL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOffline, cfg.LLM.Provider)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("TRIAL_SERVER_PORT", "3000")
	t.Setenv("TRIAL_ANTHROPIC_KEY", "sk-ant-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sk-ant-env", cfg.Anthropic.Key)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("llm: [unterminated"), 0644))

	_, err := Load()
	assert.Error(t, err)
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
	cfg.LLM.Provider = ProviderOffline
	cfg.Ranking.Weights = DefaultRankingWeights()
	cfg.Server.Port = 8080
	cfg.Server.TimeoutSecs = 120
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validDefaults()

	for _, cmd := range []string{"protocol", "sites", "serve", "config"} {
		assert.NoError(t, cfg.Validate(cmd), cmd)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.Provider = "gpt"

	err := cfg.Validate("protocol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestValidateSites_WeightSum(t *testing.T) {
	cfg := validDefaults()
	cfg.Ranking.Weights.ActiveTrials = 0.5

	err := cfg.Validate("sites")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should sum to 1")

	// Protocol drafting does not depend on ranking weights.
	assert.NoError(t, cfg.Validate("protocol"))
}

func TestValidateSites_NegativeWeight(t *testing.T) {
	cfg := validDefaults()
	cfg.Ranking.Weights.MonthlyPatients = 0.6
	cfg.Ranking.Weights.ActiveTrials = -0.1

	err := cfg.Validate("sites")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ranking.weights.active_trials must be >= 0")
}

func TestValidateSites_NegativeWeightsInFieldOrder(t *testing.T) {
	cfg := validDefaults()
	cfg.Ranking.Weights = RankingWeights{
		MonthlyPatients: -0.1,
		EnrollmentDays:  0.6,
		EDCExperience:   0.6,
		ActiveTrials:    -0.1,
	}

	for range 20 {
		err := cfg.Validate("sites")
		require.Error(t, err)
		msg := err.Error()
		first := strings.Index(msg, "ranking.weights.monthly_patients must be >= 0")
		second := strings.Index(msg, "ranking.weights.active_trials must be >= 0")
		require.GreaterOrEqual(t, first, 0)
		require.Greater(t, second, first)
	}
}

func TestDefaultRankingWeights_SumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultRankingWeights().Sum(), 1e-12)
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestRedacted(t *testing.T) {
	cfg := validDefaults()
	cfg.Anthropic.Key = "sk-ant-secret"

	red := cfg.Redacted()
	assert.Equal(t, "****", red.Anthropic.Key)
	assert.Equal(t, "sk-ant-secret", cfg.Anthropic.Key)

	cfg.Anthropic.Key = ""
	assert.Empty(t, cfg.Redacted().Anthropic.Key)
}
