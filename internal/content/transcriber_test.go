package content_test

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/alkime/voicepost/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriber_Transcribe(t *testing.T) {
	var (
		gotPath     string
		gotModel    string
		gotLanguage string
		gotFilename string
		gotAudio    []byte
	)

	client := newOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, `{"error":{"message":"bad form"}}`)
			return
		}

		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")

		file, header, err := r.FormFile("file")
		if err == nil {
			gotFilename = header.Filename
			gotAudio, _ = io.ReadAll(file)
			_ = file.Close()
		}

		writeJSON(w, http.StatusOK, `{"text":"This is a test."}`)
	})

	transcriber := content.NewTranscriber(client)

	text, err := transcriber.Transcribe(context.Background(), content.Audio{
		Data:        []byte("fake webm bytes"),
		ContentType: "audio/webm",
		Filename:    "recording.webm",
	})

	require.NoError(t, err)
	assert.Equal(t, "This is a test.", text)
	assert.Equal(t, "/audio/transcriptions", gotPath)
	assert.Equal(t, "whisper-1", gotModel)
	assert.Equal(t, "en", gotLanguage)
	assert.Equal(t, "audio.webm", gotFilename)
	assert.Equal(t, []byte("fake webm bytes"), gotAudio)
}

func TestTranscriber_ReturnsTextVerbatim(t *testing.T) {
	client := newOpenAIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"text":"  um, hello world  "}`)
	})

	text, err := content.NewTranscriber(client).Transcribe(context.Background(), content.Audio{
		Data:        []byte("x"),
		ContentType: "audio/mpeg",
	})

	require.NoError(t, err)
	assert.Equal(t, "  um, hello world  ", text)
}

func TestTranscriber_Options(t *testing.T) {
	var gotModel, gotLanguage string

	client := newOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		writeJSON(w, http.StatusOK, `{"text":"hola"}`)
	})

	transcriber := content.NewTranscriber(client,
		content.WithTranscriptionModel("gpt-4o-transcribe"),
		content.WithLanguage("es"),
	)

	_, err := transcriber.Transcribe(context.Background(), content.Audio{Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-transcribe", gotModel)
	assert.Equal(t, "es", gotLanguage)
}

func TestTranscriber_EmptyAudioNeverCallsProvider(t *testing.T) {
	var calls atomic.Int32

	client := newOpenAIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{"text":"should not happen"}`)
	})

	text, err := content.NewTranscriber(client).Transcribe(context.Background(), content.Audio{})

	require.ErrorIs(t, err, content.ErrMissingInput)
	assert.Empty(t, text)
	assert.Zero(t, calls.Load())
}

func TestTranscriber_ProviderFailure(t *testing.T) {
	client := newOpenAIClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, `{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`)
	})

	text, err := content.NewTranscriber(client).Transcribe(context.Background(), content.Audio{Data: []byte("x")})

	require.ErrorIs(t, err, content.ErrTranscriptionFailed)
	assert.NotErrorIs(t, err, content.ErrMissingInput)
	assert.Empty(t, text)
}
