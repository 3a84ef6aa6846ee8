package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/alkime/voicepost/internal/api"
	"github.com/alkime/voicepost/internal/content"
	"github.com/gin-gonic/gin"
)

// handleTranscribe accepts a multipart clip and returns its transcript.
func (s *Server) handleTranscribe(c *gin.Context) {
	logger := loggerFrom(c)

	limit := s.config.MaxUploadBytes
	if c.Request.ContentLength > limit {
		logger.Info("Rejected oversized upload", "bytes", c.Request.ContentLength, "limit", limit)
		c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: api.MsgAudioTooLarge})

		return
	}

	// Chunked bodies carry no length, so the reader enforces the limit too.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fileHeader, err := c.FormFile(api.AudioField)
	if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
		logger.Info("Rejected oversized upload", "limit", maxErr.Limit)
		c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: api.MsgAudioTooLarge})

		return
	}

	if err != nil || fileHeader.Size == 0 {
		logger.Debug("Transcribe request without audio", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.MsgNoAudio})

		return
	}

	audio, err := readAudio(fileHeader)
	if err != nil {
		logger.Error("Failed to read uploaded audio", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgTranscriptionFailed})

		return
	}

	text, err := s.gateways.Transcriber.Transcribe(c.Request.Context(), audio)
	if err != nil {
		if errors.Is(err, content.ErrMissingInput) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.MsgNoAudio})
			return
		}

		logger.Error("Transcription failed", "error", err, "bytes", len(audio.Data))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgTranscriptionFailed})

		return
	}

	logger.Info("Transcribed audio", "bytes", len(audio.Data), "chars", len(text))
	c.JSON(http.StatusOK, api.TranscribeResponse{Text: text})
}

// handleGenerate accepts a transcript and returns three platform drafts.
func (s *Server) handleGenerate(c *gin.Context) {
	logger := loggerFrom(c)

	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Debug("Generate request with unreadable body", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.MsgNoTranscript})

		return
	}

	drafts, err := s.gateways.Generator.Generate(c.Request.Context(), req.Transcript)
	if err != nil {
		if errors.Is(err, content.ErrMissingInput) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: api.MsgNoTranscript})
			return
		}

		logger.Error("Generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.MsgGenerationFailed})

		return
	}

	resp := api.NewGenerateResponse(drafts)
	for _, p := range content.Platforms() {
		if d := drafts[p]; d.Status != content.DraftGenerated {
			logger.Warn("Draft came back without content", "platform", p, "status", d.Status)
		}
	}

	c.JSON(http.StatusOK, resp)
}

func readAudio(fh *multipart.FileHeader) (content.Audio, error) {
	file, err := fh.Open()
	if err != nil {
		return content.Audio{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return content.Audio{}, fmt.Errorf("failed to read upload: %w", err)
	}

	return content.Audio{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}, nil
}
