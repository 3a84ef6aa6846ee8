package content

import "errors"

var (
	// ErrMissingInput means the payload or transcript was absent or empty.
	// The provider is never contacted when this is returned.
	ErrMissingInput = errors.New("missing input")

	// ErrTranscriptionFailed wraps any speech-to-text provider failure.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrGenerationFailed wraps any text-generation provider failure.
	ErrGenerationFailed = errors.New("generation failed")
)
