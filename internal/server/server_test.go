package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alkime/voicepost/internal/api"
	"github.com/alkime/voicepost/internal/config"
	"github.com/alkime/voicepost/internal/content"
	"github.com/alkime/voicepost/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTranscriber records calls and returns a canned result.
type fakeTranscriber struct {
	mu    sync.Mutex
	calls []content.Audio
	text  string
	err   error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio content.Audio) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, audio)

	return f.text, f.err
}

// countingCompleter counts provider requests made by a real content.Generator.
type countingCompleter struct {
	mu    sync.Mutex
	calls int
	reply func(prompt content.Prompt) (content.Completion, error)
}

func (c *countingCompleter) Complete(_ context.Context, prompt content.Prompt) (content.Completion, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	return c.reply(prompt)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Env:            "test",
		Port:           "8080",
		PublicDir:      filepath.Join(t.TempDir(), "missing"),
		MaxUploadBytes: 1 << 20,
		HSTSMaxAge:     31536000,
		CSPMode:        "relaxed",
		LogLevel:       "info",
	}
}

func testLogger() *slog.Logger {
	//nolint:exhaustruct // Only show errors during tests
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func newTestServer(t *testing.T, transcriber server.Transcriber, completer content.Completer) *server.Server {
	t.Helper()

	return server.New(testConfig(t), testLogger(), server.Gateways{
		Transcriber: transcriber,
		Generator:   content.NewGenerator(completer),
	})
}

func echoCompleter() *countingCompleter {
	return &countingCompleter{
		reply: func(prompt content.Prompt) (content.Completion, error) {
			return content.Completion{
				Text:     fmt.Sprintf("  draft (%d tokens)  \n", prompt.MaxTokens),
				Returned: true,
			}, nil
		},
	}
}

func audioRequest(t *testing.T, path, field string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, "recording.webm")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "value"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func generateRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func serve(srv *server.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp.Error
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeTranscriber{}, echoCompleter())

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "voicepost")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"), "every response carries a request id")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRequestID_IsPropagated(t *testing.T) {
	srv := newTestServer(t, &fakeTranscriber{}, echoCompleter())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")

	w := serve(srv, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestTranscribe(t *testing.T) {
	for _, path := range []string{"/transcribe", "/api/transcribe"} {
		t.Run(path, func(t *testing.T) {
			transcriber := &fakeTranscriber{text: "This is a test."}
			srv := newTestServer(t, transcriber, echoCompleter())

			w := serve(srv, audioRequest(t, path, api.AudioField, []byte("ten seconds of webm")))

			require.Equal(t, http.StatusOK, w.Code)

			var resp api.TranscribeResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "This is a test.", resp.Text)

			require.Len(t, transcriber.calls, 1)
			assert.Equal(t, []byte("ten seconds of webm"), transcriber.calls[0].Data)
			assert.Equal(t, "recording.webm", transcriber.calls[0].Filename)
		})
	}
}

func TestTranscribe_MissingAudio(t *testing.T) {
	cases := map[string]*http.Request{
		"absent field": audioRequest(t, "/transcribe", "", nil),
		"empty file":   audioRequest(t, "/transcribe", api.AudioField, []byte{}),
		"wrong field":  audioRequest(t, "/transcribe", "file", []byte("data")),
		"no body":      httptest.NewRequest(http.MethodPost, "/transcribe", nil),
		"json body":    generateRequest("/transcribe", `{"audio":"abc"}`),
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			transcriber := &fakeTranscriber{text: "unused"}
			srv := newTestServer(t, transcriber, echoCompleter())

			w := serve(srv, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "No audio file", decodeError(t, w))
			assert.Empty(t, transcriber.calls, "provider must not be contacted")
		})
	}
}

func TestTranscribe_OversizedUpload(t *testing.T) {
	cases := map[string]int64{
		"declared length": 0,
		"chunked":         -1,
	}

	for name, contentLength := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.MaxUploadBytes = 1024

			transcriber := &fakeTranscriber{text: "unused"}
			srv := server.New(cfg, testLogger(), server.Gateways{
				Transcriber: transcriber,
				Generator:   content.NewGenerator(echoCompleter()),
			})

			req := audioRequest(t, "/transcribe", api.AudioField, bytes.Repeat([]byte{0x7f}, 64*1024))
			if contentLength < 0 {
				req.ContentLength = contentLength
			}

			w := serve(srv, req)

			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
			assert.Equal(t, "Audio file too large", decodeError(t, w))
			assert.Empty(t, transcriber.calls, "provider must not be contacted")
		})
	}
}

func TestTranscribe_ProviderFailure(t *testing.T) {
	transcriber := &fakeTranscriber{
		err: fmt.Errorf("%w: quota exceeded for key sk-secret", content.ErrTranscriptionFailed),
	}
	srv := newTestServer(t, transcriber, echoCompleter())

	w := serve(srv, audioRequest(t, "/transcribe", api.AudioField, []byte("audio")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Transcription failed", decodeError(t, w))
	assert.NotContains(t, w.Body.String(), "quota", "provider detail stays in the logs")
}

func TestGenerate(t *testing.T) {
	for _, path := range []string{"/generate", "/api/generate"} {
		t.Run(path, func(t *testing.T) {
			completer := echoCompleter()
			srv := newTestServer(t, &fakeTranscriber{}, completer)

			w := serve(srv, generateRequest(path, `{"transcript":"This is a test."}`))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 3, completer.calls, "exactly one request per platform")

			var resp api.GenerateResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "draft (150 tokens)", resp.Posts.Twitter)
			assert.Equal(t, "draft (500 tokens)", resp.Posts.LinkedIn)
			assert.Equal(t, "draft (400 tokens)", resp.Posts.Instagram)
			assert.Equal(t, content.DraftGenerated, resp.Status.Twitter)
		})
	}
}

func TestGenerate_MissingTranscript(t *testing.T) {
	bodies := map[string]string{
		"absent":     `{}`,
		"empty":      `{"transcript":""}`,
		"whitespace": `{"transcript":"   "}`,
		"null":       `{"transcript":null}`,
		"wrong type": `{"transcript":42}`,
		"not json":   `transcript=hello`,
		"empty body": ``,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			completer := echoCompleter()
			srv := newTestServer(t, &fakeTranscriber{}, completer)

			w := serve(srv, generateRequest("/generate", body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "No transcript", decodeError(t, w))
			assert.Zero(t, completer.calls, "provider must not be contacted")
		})
	}
}

func TestGenerate_OneProviderFailureFailsAll(t *testing.T) {
	completer := &countingCompleter{
		reply: func(prompt content.Prompt) (content.Completion, error) {
			if strings.HasPrefix(prompt.User, content.Template(content.Instagram)) {
				return content.Completion{}, errors.New("simulated network error")
			}

			return content.Completion{Text: "fine", Returned: true}, nil
		},
	}
	srv := newTestServer(t, &fakeTranscriber{}, completer)

	w := serve(srv, generateRequest("/generate", `{"transcript":"This is a test."}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 3, completer.calls)
	assert.Equal(t, "Generation failed", decodeError(t, w))
	assert.NotContains(t, w.Body.String(), "posts", "no partial posts object")
	assert.NotContains(t, w.Body.String(), "network")
}

func TestGenerate_MissingContentIsReportedInStatus(t *testing.T) {
	completer := &countingCompleter{
		reply: func(prompt content.Prompt) (content.Completion, error) {
			if strings.HasPrefix(prompt.User, content.Template(content.LinkedIn)) {
				return content.Completion{}, nil
			}

			return content.Completion{Text: "ok", Returned: true}, nil
		},
	}
	srv := newTestServer(t, &fakeTranscriber{}, completer)

	w := serve(srv, generateRequest("/generate", `{"transcript":"hello"}`))

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "", resp.Posts.LinkedIn)
	assert.Equal(t, content.DraftMissing, resp.Status.LinkedIn)
	assert.Equal(t, content.DraftGenerated, resp.Status.Twitter)
}

func TestStaticAssets(t *testing.T) {
	cfg := testConfig(t)
	cfg.PublicDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PublicDir, "app.js"), []byte("// VoicePost client"), 0o600))

	srv := server.New(cfg, testLogger(), server.Gateways{
		Transcriber: &fakeTranscriber{},
		Generator:   content.NewGenerator(echoCompleter()),
	})

	w := serve(srv, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "VoicePost")

	w = serve(srv, httptest.NewRequest(http.MethodGet, "/nope.js", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
