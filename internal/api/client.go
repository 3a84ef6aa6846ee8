package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/alkime/voicepost/internal/content"
)

// Error is a non-2xx answer from the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the VoicePost HTTP surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL (e.g. http://localhost:8080).
// A nil httpClient selects http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Transcribe uploads the clip to POST /transcribe.
func (c *Client) Transcribe(ctx context.Context, audio content.Audio) (string, error) {
	if audio.Empty() {
		return "", fmt.Errorf("no audio recorded: %w", content.ErrMissingInput)
	}

	body, contentType, err := multipartAudio(audio)
	if err != nil {
		return "", err
	}

	var resp TranscribeResponse
	if err := c.post(ctx, "/transcribe", contentType, body, &resp); err != nil {
		return "", err
	}

	return resp.Text, nil
}

// Generate asks POST /generate for the three drafts.
func (c *Client) Generate(ctx context.Context, transcript string) (content.DraftSet, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("no transcript: %w", content.ErrMissingInput)
	}

	payload, err := json.Marshal(GenerateRequest{Transcript: transcript})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generate request: %w", err)
	}

	var resp GenerateResponse
	if err := c.post(ctx, "/generate", "application/json", bytes.NewReader(payload), &resp); err != nil {
		return nil, err
	}

	return resp.Drafts(), nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr != nil || errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}

		apiErr := &Error{StatusCode: resp.StatusCode, Message: errResp.Error}
		if resp.StatusCode == http.StatusBadRequest {
			return fmt.Errorf("%w: %w", content.ErrMissingInput, apiErr)
		}

		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

func multipartAudio(audio content.Audio) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	filename := audio.Filename
	if filename == "" {
		filename = audio.UploadFilename()
	}

	partType := audio.ContentType
	if partType == "" {
		partType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, AudioField, filename))
	header.Set("Content-Type", partType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create audio part: %w", err)
	}

	if _, err := part.Write(audio.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write audio part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}
