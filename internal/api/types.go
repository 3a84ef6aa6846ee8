// Package api defines the HTTP wire format shared by the server and the
// terminal client, and a client for it.
package api

import "github.com/alkime/voicepost/internal/content"

// AudioField is the multipart field carrying the recorded clip.
const AudioField = "audio"

// Fixed error messages. Provider detail never reaches the client.
const (
	MsgNoAudio             = "No audio file"
	MsgAudioTooLarge       = "Audio file too large"
	MsgTranscriptionFailed = "Transcription failed"
	MsgNoTranscript        = "No transcript"
	MsgGenerationFailed    = "Generation failed"
)

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TranscribeResponse is the 200 body of POST /transcribe.
type TranscribeResponse struct {
	Text string `json:"text"`
}

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Transcript string `json:"transcript"`
}

// Posts carries one draft per platform; all keys are always present.
type Posts struct {
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
}

// PostStatus mirrors Posts with each draft's content.DraftStatus.
type PostStatus struct {
	Twitter   content.DraftStatus `json:"twitter"`
	LinkedIn  content.DraftStatus `json:"linkedin"`
	Instagram content.DraftStatus `json:"instagram"`
}

// GenerateResponse is the 200 body of POST /generate.
type GenerateResponse struct {
	Posts  Posts      `json:"posts"`
	Status PostStatus `json:"status"`
}

// NewGenerateResponse flattens a draft set into its wire form.
func NewGenerateResponse(drafts content.DraftSet) GenerateResponse {
	return GenerateResponse{
		Posts: Posts{
			Twitter:   drafts[content.Twitter].Text,
			LinkedIn:  drafts[content.LinkedIn].Text,
			Instagram: drafts[content.Instagram].Text,
		},
		Status: PostStatus{
			Twitter:   drafts[content.Twitter].Status,
			LinkedIn:  drafts[content.LinkedIn].Status,
			Instagram: drafts[content.Instagram].Status,
		},
	}
}

// Drafts rebuilds the draft set. A server that predates the status field
// leaves it blank; those drafts are treated as generated when they have text.
func (r GenerateResponse) Drafts() content.DraftSet {
	texts := map[content.Platform]string{
		content.Twitter:   r.Posts.Twitter,
		content.LinkedIn:  r.Posts.LinkedIn,
		content.Instagram: r.Posts.Instagram,
	}
	statuses := map[content.Platform]content.DraftStatus{
		content.Twitter:   r.Status.Twitter,
		content.LinkedIn:  r.Status.LinkedIn,
		content.Instagram: r.Status.Instagram,
	}

	drafts := make(content.DraftSet, len(texts))
	for _, p := range content.Platforms() {
		status := statuses[p]
		if status == "" {
			status = content.DraftGenerated
			if texts[p] == "" {
				status = content.DraftEmpty
			}
		}

		drafts[p] = content.Draft{Platform: p, Text: texts[p], Status: status}
	}

	return drafts
}
