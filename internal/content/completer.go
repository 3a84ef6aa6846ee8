package content

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// DefaultChatModel drafts posts when no model is configured.
const DefaultChatModel = openai.ChatModelGPT4oMini

// Completion is what a provider returned for one prompt. Returned is false
// when the provider answered successfully but carried no completion at all.
type Completion struct {
	Text     string
	Returned bool
}

// Completer runs a single prompt against a text-generation provider.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)
}

// OpenAICompleter drafts posts with OpenAI chat completions.
type OpenAICompleter struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewOpenAICompleter creates a completer around a shared client.
// An empty model selects DefaultChatModel.
func NewOpenAICompleter(client *openai.Client, model string) *OpenAICompleter {
	m := DefaultChatModel
	if model != "" {
		m = openai.ChatModel(model)
	}

	return &OpenAICompleter{
		client: client,
		model:  m,
	}
}

// Complete sends the persona and prompt as a two-message chat.
func (c *OpenAICompleter) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		MaxTokens: openai.Int(prompt.MaxTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Completion{}, fmt.Errorf("chat completion via OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Completion{}, nil
	}

	return Completion{
		Text:     resp.Choices[0].Message.Content,
		Returned: true,
	}, nil
}
