package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractlens-backend/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"CONTRACTLENS_SERVER_PORT", "CONTRACTLENS_LLM_PROVIDER", "CONTRACTLENS_LLM_OPENAI_API_KEY",
		"CONTRACTLENS_ANALYSIS_OVERRIDE_CONFIDENCE", "CONTRACTLENS_LLM_TIMEOUT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Server.Port)
	assert.EqualValues(t, 5<<20, cfg.Server.MaxUploadBytes)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Gemini.Model)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.Analysis.DetectType)
	assert.InDelta(t, 0.80, cfg.Analysis.OverrideConfidence, 1e-9)
	assert.Equal(t, 50000, cfg.Analysis.FullCharLimit)
	assert.Equal(t, 25000, cfg.Analysis.DemoCharLimit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := `
llm:
  provider: Gemini
  timeout: 15s
  gemini:
    model: gemini-pro
analysis:
  override_confidence: 0.9
  detect_type: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("PORT", "9000")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("CONTRACTLENS_ANALYSIS_OVERRIDE_CONFIDENCE", "0.7")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.Analysis.DetectType)
	assert.InDelta(t, 0.7, cfg.Analysis.OverrideConfidence, 1e-9)

	c := cfg.LLM.Client()
	assert.Equal(t, llm.ProviderGemini, c.Provider)
	assert.Equal(t, "g-key", c.APIKey)
	assert.Equal(t, "gemini-pro", c.Model)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "plain")
	t.Setenv("CONTRACTLENS_LLM_OPENAI_API_KEY", "prefixed")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.LLM.Client().APIKey)
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("llm: [unclosed"), 0o600))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8082", MaxUploadBytes: 1},
			LLM:      LLMConfig{Provider: llm.ProviderOpenAI, Timeout: time.Second},
			Analysis: AnalysisConfig{OverrideConfidence: 0.8, FullCharLimit: 1, DemoCharLimit: 1},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(*Config){
		"provider":   func(c *Config) { c.LLM.Provider = "ollama" },
		"timeout":    func(c *Config) { c.LLM.Timeout = 0 },
		"threshold":  func(c *Config) { c.Analysis.OverrideConfidence = 1.5 },
		"negative":   func(c *Config) { c.Analysis.OverrideConfidence = -0.1 },
		"full limit": func(c *Config) { c.Analysis.FullCharLimit = 0 },
		"demo limit": func(c *Config) { c.Analysis.DemoCharLimit = -1 },
		"upload":     func(c *Config) { c.Server.MaxUploadBytes = 0 },
		"port":       func(c *Config) { c.Server.Port = " " },
	}
	for name, mutate := range tests {
		c := valid()
		mutate(c)
		assert.Error(t, c.Validate(), name)
	}
}
