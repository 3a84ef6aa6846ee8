package server

import (
	"context"

	"github.com/alkime/voicepost/internal/content"
)

// Transcriber turns a recorded clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio content.Audio) (string, error)
}

// PostGenerator turns a transcript into a full draft set.
type PostGenerator interface {
	Generate(ctx context.Context, transcript string) (content.DraftSet, error)
}

// Gateways are the provider-backed collaborators, constructed once at
// process start and shared by every request.
type Gateways struct {
	Transcriber Transcriber
	Generator   PostGenerator
}
