package content

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

const (
	// DefaultTranscriptionModel is the Whisper model used unless configured otherwise.
	DefaultTranscriptionModel = openai.AudioModelWhisper1
	// DefaultLanguage is the spoken language Whisper is told to expect.
	DefaultLanguage = "en"
)

// Transcriber handles Whisper API transcription requests.
type Transcriber struct {
	client   *openai.Client
	model    openai.AudioModel
	language string
}

// TranscriberOption customises a Transcriber.
type TranscriberOption func(*Transcriber)

// WithTranscriptionModel overrides the Whisper model.
func WithTranscriptionModel(model string) TranscriberOption {
	return func(t *Transcriber) {
		if model != "" {
			t.model = openai.AudioModel(model)
		}
	}
}

// WithLanguage overrides the spoken language.
func WithLanguage(language string) TranscriberOption {
	return func(t *Transcriber) {
		if language != "" {
			t.language = language
		}
	}
}

// NewTranscriber creates a transcriber around an already constructed client.
// The client is shared and safe for concurrent use.
func NewTranscriber(client *openai.Client, opts ...TranscriberOption) *Transcriber {
	t := &Transcriber{
		client:   client,
		model:    DefaultTranscriptionModel,
		language: DefaultLanguage,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Transcribe sends the clip to Whisper and returns the recognised text verbatim.
func (t *Transcriber) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if audio.Empty() {
		return "", fmt.Errorf("no audio to transcribe: %w", ErrMissingInput)
	}

	params := openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(audio.Data), audio.UploadFilename(), audio.ContentType),
		Model:    t.model,
		Language: openai.String(t.language),
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: whisper API: %w", ErrTranscriptionFailed, err)
	}

	return resp.Text, nil
}
