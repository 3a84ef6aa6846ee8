package content

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultAudioFilename is used when the content type says nothing useful.
// Browsers' MediaRecorder produces webm, so that is the safest guess.
const DefaultAudioFilename = "audio.webm"

// Audio is one recorded clip: opaque container bytes plus what they claim to be.
type Audio struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DetectAudio wraps file bytes, taking the content type from the container
// itself. Anything that is not audio or video is sent as octet-stream.
func DetectAudio(data []byte, filename string) Audio {
	contentType := "application/octet-stream"
	if m := mimetype.Detect(data); isMedia(m) {
		contentType = m.String()
	}

	return Audio{
		Data:        data,
		ContentType: contentType,
		Filename:    filename,
	}
}

// Empty reports whether there is nothing to transcribe.
func (a Audio) Empty() bool {
	return len(a.Data) == 0
}

// UploadFilename picks the filename sent to the provider. Whisper sniffs the
// container from the extension, so it follows the content type and ignores
// whatever name the client made up. An unknown type falls back to the bytes.
func (a Audio) UploadFilename() string {
	m := lookupMedia(a.ContentType)
	if m == nil && len(a.Data) > 0 {
		if sniffed := mimetype.Detect(a.Data); isMedia(sniffed) {
			m = sniffed
		}
	}

	if m == nil || m.Extension() == "" {
		return DefaultAudioFilename
	}

	return "audio" + m.Extension()
}

func lookupMedia(contentType string) *mimetype.MIME {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil
	}

	if m := mimetype.Lookup(mediaType); isMedia(m) {
		return m
	}

	return nil
}

func isMedia(m *mimetype.MIME) bool {
	if m == nil {
		return false
	}

	return strings.HasPrefix(m.String(), "audio/") || strings.HasPrefix(m.String(), "video/")
}
