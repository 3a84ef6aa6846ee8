package config_test

import (
	"testing"

	"github.com/alkime/voicepost/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		Port:               "8080",
		MaxUploadBytes:     1024,
		OpenAIAPIKey:       "sk-test",
		GenerationProvider: config.ProviderOpenAI,
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "whisper-1", cfg.TranscriptionModel)
	assert.Equal(t, "en", cfg.TranscriptionLanguage)
	assert.Equal(t, config.ProviderOpenAI, cfg.GenerationProvider)
	assert.Equal(t, 0, cfg.ProviderMaxRetries, "no retries unless asked for")
	assert.Equal(t, "sk-env", cfg.OpenAIAPIKey)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("openai provider with key", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing openai key", func(t *testing.T) {
		cfg := validConfig()
		cfg.OpenAIAPIKey = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OpenAI API key")
	})

	t.Run("anthropic provider needs its own key", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenerationProvider = config.ProviderAnthropic

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Anthropic API key")

		cfg.AnthropicAPIKey = "sk-ant"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.GenerationProvider = "llama"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GENERATION_PROVIDER")
	})

	t.Run("negative retries", func(t *testing.T) {
		cfg := validConfig()
		cfg.ProviderMaxRetries = -1

		assert.Error(t, cfg.Validate())
	})
}

func TestBuildCSP(t *testing.T) {
	assert.Contains(t, config.BuildCSP("strict"), "object-src 'none'")
	assert.Contains(t, config.BuildCSP("relaxed"), "'unsafe-inline'")
	assert.Contains(t, config.BuildCSP("relaxed"), "media-src 'self' blob:")
}
