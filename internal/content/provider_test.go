package content_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// newOpenAIClient points an OpenAI client at a local fake provider.
func newOpenAIClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(srv.URL+"/"),
		option.WithMaxRetries(0),
	)

	return &client
}

// newAnthropicClient points an Anthropic client at a local fake provider.
func newAnthropicClient(t *testing.T, handler http.HandlerFunc) *anthropic.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := anthropic.NewClient(
		anthropicoption.WithAPIKey("test-key"),
		anthropicoption.WithBaseURL(srv.URL+"/"),
		anthropicoption.WithMaxRetries(0),
	)

	return &client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func chatCompletionJSON(content string) string {
	return `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
		`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":` +
		content + `}}]}`
}
