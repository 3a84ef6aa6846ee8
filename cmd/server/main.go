package main

import (
	"log"

	"github.com/alkime/voicepost/internal/config"
	"github.com/alkime/voicepost/internal/keyring"
	"github.com/alkime/voicepost/internal/logger"
	"github.com/alkime/voicepost/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	slogger := logger.SetupLogger(cfg)

	// Environment wins; fall back to the keychain for local runs
	cfg.OpenAIAPIKey = keyring.Resolve(keyring.OpenAI, cfg.OpenAIAPIKey)
	if cfg.GenerationProvider == config.ProviderAnthropic {
		cfg.AnthropicAPIKey = keyring.Resolve(keyring.Anthropic, cfg.AnthropicAPIKey)
	}

	if err := cfg.Validate(); err != nil {
		slogger.Error("Invalid configuration", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	slogger.Info("Starting VoicePost server",
		"env", cfg.Env,
		"port", cfg.Port,
		"generation_provider", cfg.GenerationProvider,
		"transcription_model", cfg.TranscriptionModel,
	)

	srv := server.New(cfg, slogger, buildGateways(cfg))

	if err := server.Run(srv); err != nil {
		slogger.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
