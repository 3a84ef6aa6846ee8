package main

import (
	"github.com/alkime/voicepost/internal/config"
	"github.com/alkime/voicepost/internal/content"
	"github.com/alkime/voicepost/internal/server"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// buildGateways constructs each provider client once for the life of the process.
func buildGateways(cfg *config.Config) server.Gateways {
	openaiClient := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
		option.WithMaxRetries(cfg.ProviderMaxRetries),
	)

	transcriber := content.NewTranscriber(&openaiClient,
		content.WithTranscriptionModel(cfg.TranscriptionModel),
		content.WithLanguage(cfg.TranscriptionLanguage),
	)

	return server.Gateways{
		Transcriber: transcriber,
		Generator:   content.NewGenerator(newCompleter(cfg, &openaiClient)),
	}
}

func newCompleter(cfg *config.Config, openaiClient *openai.Client) content.Completer {
	if cfg.GenerationProvider == config.ProviderAnthropic {
		anthropicClient := anthropic.NewClient(
			anthropicoption.WithAPIKey(cfg.AnthropicAPIKey),
			anthropicoption.WithMaxRetries(cfg.ProviderMaxRetries),
		)

		return content.NewAnthropicCompleter(&anthropicClient, cfg.GenerationModel)
	}

	return content.NewOpenAICompleter(openaiClient, cfg.GenerationModel)
}
