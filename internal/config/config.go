package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LLM provider names accepted by llm.provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderOffline   = "offline"
)

// Config holds the full application configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Ollama    OllamaConfig    `yaml:"ollama" mapstructure:"ollama"`
	Ranking   RankingConfig   `yaml:"ranking" mapstructure:"ranking"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects and tunes the text-generation backend.
type LLMConfig struct {
	Provider            string `yaml:"provider" mapstructure:"provider"`
	MaxTokens           int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	BreakerThreshold    int    `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldownSecs int    `yaml:"breaker_cooldown_secs" mapstructure:"breaker_cooldown_secs"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OllamaConfig holds settings for a local Ollama server.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// RankingConfig configures site ranking.
type RankingConfig struct {
	Weights RankingWeights `yaml:"weights" mapstructure:"weights"`
}

// RankingWeights are the composite score weights. They must sum to 1.
type RankingWeights struct {
	MonthlyPatients float64 `yaml:"monthly_patients" mapstructure:"monthly_patients"`
	EnrollmentDays  float64 `yaml:"enrollment_days" mapstructure:"enrollment_days"`
	EDCExperience   float64 `yaml:"edc_experience" mapstructure:"edc_experience"`
	ActiveTrials    float64 `yaml:"active_trials" mapstructure:"active_trials"`
}

// Sum returns the total of all weights.
func (w RankingWeights) Sum() float64 {
	return w.MonthlyPatients + w.EnrollmentDays + w.EDCExperience + w.ActiveTrials
}

// DefaultRankingWeights returns the standard composite weights: patient
// volume 0.4, enrollment speed 0.3, EDC experience 0.2, trial load 0.1.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		MonthlyPatients: 0.4,
		EnrollmentDays:  0.3,
		EDCExperience:   0.2,
		ActiveTrials:    0.1,
	}
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	TimeoutSecs    int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
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
	v.SetEnvPrefix("TRIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("llm.provider", ProviderOllama)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.breaker_threshold", 3)
	v.SetDefault("llm.breaker_cooldown_secs", 60)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.base_url", "")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3")
	weights := DefaultRankingWeights()
	v.SetDefault("ranking.weights.monthly_patients", weights.MonthlyPatients)
	v.SetDefault("ranking.weights.enrollment_days", weights.EnrollmentDays)
	v.SetDefault("ranking.weights.edc_experience", weights.EDCExperience)
	v.SetDefault("ranking.weights.active_trials", weights.ActiveTrials)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_secs", 120)
	v.SetDefault("server.allowed_origins", []string{"*"})
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

// Validate checks the settings a command depends on. Unknown commands only
// get the checks shared by every command.
func (c *Config) Validate(command string) error {
	var errs []string

	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOllama, ProviderOffline:
	default:
		errs = append(errs, fmt.Sprintf("llm.provider must be one of anthropic, ollama, offline (got %q)", c.LLM.Provider))
	}

	switch command {
	case "sites", "serve":
		errs = append(errs, c.Ranking.Weights.validate()...)
	}

	if command == "serve" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
		}
		if c.Server.TimeoutSecs < 0 {
			errs = append(errs, "server.timeout_secs must be >= 0")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (w RankingWeights) validate() []string {
	var errs []string
	weights := []struct {
		name  string
		value float64
	}{
		{"monthly_patients", w.MonthlyPatients},
		{"enrollment_days", w.EnrollmentDays},
		{"edc_experience", w.EDCExperience},
		{"active_trials", w.ActiveTrials},
	}
	for _, wt := range weights {
		if wt.value < 0 {
			errs = append(errs, fmt.Sprintf("ranking.weights.%s must be >= 0", wt.name))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > 0.001 {
		errs = append(errs, fmt.Sprintf("ranking.weights should sum to 1, got %.3f", sum))
	}
	return errs
}

// Redacted returns a copy safe to print, with secrets masked.
func (c Config) Redacted() Config {
	if c.Anthropic.Key != "" {
		c.Anthropic.Key = "****"
	}
	return c
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
