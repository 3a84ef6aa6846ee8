package content

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// DefaultClaudeModel drafts posts when the Anthropic provider has no model configured.
const DefaultClaudeModel = anthropic.ModelClaudeSonnet4_5_20250929

// AnthropicCompleter drafts posts with the Anthropic Messages API.
type AnthropicCompleter struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicCompleter creates a completer around a shared client.
func NewAnthropicCompleter(client *anthropic.Client, model string) *AnthropicCompleter {
	m := DefaultClaudeModel
	if model != "" {
		m = anthropic.Model(model)
	}

	return &AnthropicCompleter{
		client: client,
		model:  m,
	}
}

// Complete returns the first text block of the reply.
func (c *AnthropicCompleter) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: prompt.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Completion{}, fmt.Errorf("message via Anthropic API: %w", err)
	}

	for _, block := range resp.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			return Completion{Text: textBlock.Text, Returned: true}, nil
		}
	}

	return Completion{}, nil
}
