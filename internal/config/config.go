// Package config loads service settings from an optional config.yaml, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"contractlens-backend/internal/llm"
)

// Config represents the complete service configuration. The structure
// matches config.yaml and every key can be overridden by environment
// variables prefixed with CONTRACTLENS_.
type Config struct {
	Server   ServerConfig   `json:"server" mapstructure:"server"`
	LLM      LLMConfig      `json:"llm" mapstructure:"llm"`
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis"`
	Log      LogConfig      `json:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Port           string `json:"port" mapstructure:"port"`
	MaxUploadBytes int64  `json:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// LLMConfig selects the provider. Only the block for the active provider
// is used.
type LLMConfig struct {
	Provider    string         `json:"provider" mapstructure:"provider"`
	Temperature float32        `json:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration  `json:"timeout" mapstructure:"timeout"`
	OpenAI      ProviderConfig `json:"openai" mapstructure:"openai"`
	Gemini      ProviderConfig `json:"gemini" mapstructure:"gemini"`
}

type ProviderConfig struct {
	APIKey  string `json:"-" mapstructure:"api_key"`
	Model   string `json:"model" mapstructure:"model"`
	BaseURL string `json:"base_url" mapstructure:"base_url"`
}

type AnalysisConfig struct {
	DetectType         bool    `json:"detect_type" mapstructure:"detect_type"`
	OverrideConfidence float64 `json:"override_confidence" mapstructure:"override_confidence"`
	FullCharLimit      int     `json:"full_char_limit" mapstructure:"full_char_limit"`
	DemoCharLimit      int     `json:"demo_char_limit" mapstructure:"demo_char_limit"`
}

type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

const envPrefix = "CONTRACTLENS"

// Load reads configuration. With no arguments config.yaml is looked up in
// the working directory and $HOME/.contractlens.
func Load(searchPaths ...string) (*Config, error) {
	// Load .env first (ignore error if not present)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "$HOME/.contractlens"}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindConventionalEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8082")
	v.SetDefault("server.max_upload_bytes", 5<<20)

	v.SetDefault("llm.provider", llm.ProviderOpenAI)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.gemini.model", "gemini-1.5-flash")
	v.SetDefault("llm.gemini.api_key", "")

	v.SetDefault("analysis.detect_type", true)
	v.SetDefault("analysis.override_confidence", 0.80)
	v.SetDefault("analysis.full_char_limit", 50000)
	v.SetDefault("analysis.demo_char_limit", 25000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// bindConventionalEnv lets the usual unprefixed variable names work too.
func bindConventionalEnv(v *viper.Viper) error {
	binds := [][]string{
		{"server.port", envPrefix + "_SERVER_PORT", "PORT"},
		{"llm.openai.api_key", envPrefix + "_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
		{"llm.gemini.api_key", envPrefix + "_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"},
	}
	for _, b := range binds {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("bind %s: %w", b[0], err)
		}
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderGemini:
	default:
		return fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if t := c.Analysis.OverrideConfidence; t < 0 || t > 1 {
		return fmt.Errorf("analysis.override_confidence must be within [0,1], got %v", t)
	}
	if c.Analysis.FullCharLimit <= 0 || c.Analysis.DemoCharLimit <= 0 {
		return errors.New("analysis char limits must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port is required")
	}
	return nil
}

// Client returns the provider settings for llm.New.
func (c LLMConfig) Client() llm.Config {
	p := c.OpenAI
	if c.Provider == llm.ProviderGemini {
		p = c.Gemini
	}
	return llm.Config{
		Provider:    c.Provider,
		APIKey:      p.APIKey,
		Model:       p.Model,
		BaseURL:     p.BaseURL,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}
