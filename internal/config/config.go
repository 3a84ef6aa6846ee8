package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"

	// ProviderOpenAI drafts posts with OpenAI chat completions.
	ProviderOpenAI = "openai"
	// ProviderAnthropic drafts posts with the Anthropic Messages API.
	ProviderAnthropic = "anthropic"
)

// Config holds all server configuration.
type Config struct {
	// Server settings
	Env       string `envconfig:"ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8080"`
	PublicDir string `envconfig:"PUBLIC_DIR" default:"./public"`

	// MaxUploadBytes caps the size of a /transcribe request body. Whisper
	// rejects files over 25MB.
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"26214400"`

	// Security settings
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Provider settings
	OpenAIAPIKey          string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey       string `envconfig:"ANTHROPIC_API_KEY"`
	TranscriptionModel    string `envconfig:"TRANSCRIPTION_MODEL" default:"whisper-1"`
	TranscriptionLanguage string `envconfig:"TRANSCRIPTION_LANGUAGE" default:"en"`
	GenerationProvider    string `envconfig:"GENERATION_PROVIDER" default:"openai"`
	GenerationModel       string `envconfig:"GENERATION_MODEL"`
	ProviderMaxRetries    int    `envconfig:"PROVIDER_MAX_RETRIES" default:"0"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	// Parse environment variables into config struct
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &config, nil
}

// Validate checks that the provider settings can actually serve requests.
// Call it after any API key fallbacks have been applied.
func (c *Config) Validate() error {
	// Transcription always goes through OpenAI.
	if c.OpenAIAPIKey == "" {
		return errors.New("missing OpenAI API key: set OPENAI_API_KEY or run 'voicepost config set-key openai <key>'")
	}

	switch c.GenerationProvider {
	case ProviderOpenAI:
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("missing Anthropic API key: set ANTHROPIC_API_KEY or run 'voicepost config set-key anthropic <key>'")
		}
	default:
		return fmt.Errorf("invalid GENERATION_PROVIDER %q: must be %q or %q",
			c.GenerationProvider, ProviderOpenAI, ProviderAnthropic)
	}

	if c.ProviderMaxRetries < 0 {
		return errors.New("PROVIDER_MAX_RETRIES cannot be negative")
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		// Production CSP
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"media-src 'self' blob:; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"media-src 'self' blob:"
}
