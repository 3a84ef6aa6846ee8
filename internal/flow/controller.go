package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alkime/voicepost/internal/content"
)

// CopiedIndicatorDuration is how long a draft stays marked as copied.
const CopiedIndicatorDuration = 2000 * time.Millisecond

var (
	// ErrBusy is returned while a transcription or generation call is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrInvalidTransition is returned when an operation does not apply to the current stage.
	ErrInvalidTransition = errors.New("operation not available at this stage")
	// ErrPublishNotImplemented is returned by every Publish call.
	ErrPublishNotImplemented = errors.New("publishing is not yet implemented")
	// ErrDiscarded is returned when a reset happened while a call was in flight.
	ErrDiscarded = errors.New("result discarded after reset")
)

// Gateway is the remote side of the flow.
type Gateway interface {
	Transcribe(ctx context.Context, audio content.Audio) (string, error)
	Generate(ctx context.Context, transcript string) (content.DraftSet, error)
}

// Microphone captures one clip at a time.
type Microphone interface {
	Start(ctx context.Context) error
	// Stop finalises the capture and releases the device.
	Stop(ctx context.Context) (content.Audio, error)
	// Release abandons an active capture.
	Release()
}

// Clipboard receives copied drafts.
type Clipboard interface {
	Copy(text string) error
}

// Controller owns the flow state. It is safe for concurrent use; the
// gateway calls run without holding the lock.
type Controller struct {
	gateway   Gateway
	mic       Microphone
	clipboard Clipboard
	logger    *slog.Logger

	copiedFor time.Duration
	now       func() time.Time

	mu     sync.Mutex
	state  State
	busy   bool
	epoch  uint64
	copied map[content.Platform]time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithCopiedIndicatorDuration overrides CopiedIndicatorDuration.
func WithCopiedIndicatorDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.copiedFor = d
	}
}

// WithClock overrides the time source used for copy marks.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController returns a controller at the record stage.
func NewController(gateway Gateway, mic Microphone, clipboard Clipboard, opts ...Option) *Controller {
	c := &Controller{
		gateway:   gateway,
		mic:       mic,
		clipboard: clipboard,
		logger:    slog.Default(),
		copiedFor: CopiedIndicatorDuration,
		now:       time.Now,
		state:     Recording{},
		copied:    make(map[content.Platform]time.Time),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CopiedFor returns how long copy marks last.
func (c *Controller) CopiedFor() time.Duration {
	return c.copiedFor
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	copied := make(map[content.Platform]bool, len(c.copied))
	for p, until := range c.copied {
		if now.Before(until) {
			copied[p] = true
		}
	}

	return Snapshot{State: c.state, Busy: c.busy, Copied: copied}
}

// StartRecording acquires the microphone.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}

	st, ok := c.state.(Recording)
	if !ok || st.Active || st.Capture != nil {
		return fmt.Errorf("%w: cannot start recording at %s", ErrInvalidTransition, c.state.Stage())
	}

	if err := c.mic.Start(ctx); err != nil {
		c.logger.Warn("Failed to start recording", "error", err)
		return fmt.Errorf("microphone unavailable: %w", err)
	}

	c.state = Recording{Active: true}
	c.logger.Debug("Recording started")

	return nil
}

// StopRecording finalises the capture and keeps the clip for transcription.
func (c *Controller) StopRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state.(Recording)
	if !ok || !st.Active {
		return fmt.Errorf("%w: not recording", ErrInvalidTransition)
	}

	audio, err := c.mic.Stop(ctx)
	if err != nil {
		c.state = Recording{}
		return fmt.Errorf("failed to finish recording: %w", err)
	}

	if audio.Empty() {
		c.state = Recording{}
		return fmt.Errorf("%w: recording captured no audio", content.ErrMissingInput)
	}

	c.state = Recording{Capture: &audio}
	c.logger.Debug("Recording stopped", "bytes", len(audio.Data))

	return nil
}

// Transcribe sends the captured clip to the gateway. On success the flow
// moves to the generate stage; on failure it stays at transcribe so the
// call can be repeated.
func (c *Controller) Transcribe(ctx context.Context) error {
	c.mu.Lock()

	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}

	var audio content.Audio
	switch st := c.state.(type) {
	case Recording:
		if st.Active || st.Capture == nil {
			c.mu.Unlock()
			return fmt.Errorf("%w: no recording to transcribe", ErrInvalidTransition)
		}
		audio = *st.Capture
	case Transcribing:
		audio = st.Capture
	default:
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot transcribe at %s", ErrInvalidTransition, c.state.Stage())
	}

	c.state = Transcribing{Capture: audio}
	c.busy = true
	epoch := c.epoch
	c.mu.Unlock()

	text, err := c.gateway.Transcribe(ctx, audio)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		c.logger.Debug("Dropping transcription result after reset")
		return ErrDiscarded
	}

	c.busy = false

	if err != nil {
		c.logger.Warn("Transcription failed", "error", err)
		return fmt.Errorf("transcription failed: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		c.logger.Warn("Transcription returned no text", "bytes", len(audio.Data))
		return fmt.Errorf("%w: no speech was recognized", content.ErrMissingInput)
	}

	c.state = Generating{Transcript: text}

	return nil
}

// Generate requests the three drafts. On success the flow moves to the post
// stage; on failure it stays at generate.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()

	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}

	st, ok := c.state.(Generating)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot generate at %s", ErrInvalidTransition, c.state.Stage())
	}

	if strings.TrimSpace(st.Transcript) == "" {
		c.mu.Unlock()
		return fmt.Errorf("%w: transcript is empty", content.ErrMissingInput)
	}

	c.busy = true
	epoch := c.epoch
	c.mu.Unlock()

	drafts, err := c.gateway.Generate(ctx, st.Transcript)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		c.logger.Debug("Dropping generated drafts after reset")
		return ErrDiscarded
	}

	c.busy = false

	if err != nil {
		c.logger.Warn("Generation failed", "error", err)
		return fmt.Errorf("generation failed: %w", err)
	}

	c.state = Posting{Transcript: st.Transcript, Drafts: drafts}

	return nil
}

// Copy puts one platform's draft on the clipboard and marks it copied.
func (c *Controller) Copy(p content.Platform) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state.(Posting)
	if !ok {
		return fmt.Errorf("%w: nothing to copy at %s", ErrInvalidTransition, c.state.Stage())
	}

	draft, ok := st.Drafts[p]
	if !ok {
		return fmt.Errorf("%w: no %s draft", ErrInvalidTransition, p)
	}

	if err := c.clipboard.Copy(draft.Text); err != nil {
		return fmt.Errorf("failed to copy %s draft: %w", p, err)
	}

	c.copied[p] = c.now().Add(c.copiedFor)

	return nil
}

// Publish is a placeholder for posting to a platform.
func (c *Controller) Publish(p content.Platform) error {
	c.logger.Info("Publish requested", "platform", p)
	return ErrPublishNotImplemented
}

// Reset returns to the record stage from anywhere, releasing an active
// microphone. Calls still in flight finish with ErrDiscarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st, ok := c.state.(Recording); ok && st.Active {
		c.mic.Release()
	}

	c.epoch++
	c.state = Recording{}
	c.busy = false
	clear(c.copied)
}
