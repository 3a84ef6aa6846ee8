package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alkime/voicepost/internal/content"
)

// levelHistory is roughly five seconds of malgo packets at 16kHz.
const levelHistory = 256

var (
	// ErrDeviceBusy is returned when a capture is already running.
	ErrDeviceBusy = errors.New("microphone already in use")
	// ErrNotRecording is returned by Stop without a running capture.
	ErrNotRecording = errors.New("microphone is not recording")
)

// Microphone records one clip at a time into memory and hands it back as
// MP3 when stopped. The device is held only between Start and Stop.
type Microphone struct {
	newDevice  func() Device
	sampleRate int
	levels     *Levels
	logger     *slog.Logger

	mu    sync.Mutex
	dev   Device
	dataC chan DataPacket
	done  chan struct{}
	pcm   bytes.Buffer
}

// MicrophoneOption configures a Microphone.
type MicrophoneOption func(*Microphone)

// WithDeviceFactory replaces the malgo device, mostly for tests.
func WithDeviceFactory(newDevice func() Device) MicrophoneOption {
	return func(m *Microphone) {
		m.newDevice = newDevice
	}
}

// WithMicrophoneLogger sets the logger.
func WithMicrophoneLogger(logger *slog.Logger) MicrophoneOption {
	return func(m *Microphone) {
		m.logger = logger
	}
}

// NewMicrophone returns a microphone capturing with conf.
func NewMicrophone(conf *DeviceConfig, opts ...MicrophoneOption) *Microphone {
	m := &Microphone{
		newDevice:  func() Device { return NewDevice(conf) },
		sampleRate: conf.SampleRate,
		levels:     NewLevels(levelHistory),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start acquires the device and begins capturing.
func (m *Microphone) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev != nil {
		return ErrDeviceBusy
	}

	dev := m.newDevice()
	dataC := make(chan DataPacket, 64)

	if err := dev.CaptureInto(ctx, dataC); err != nil {
		return fmt.Errorf("failed to open capture device: %w", err)
	}

	if err := dev.Start(ctx); err != nil {
		dev.Dealloc(ctx)
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	m.pcm.Reset()
	m.levels.Reset()
	m.dev = dev
	m.dataC = dataC
	m.done = make(chan struct{})

	go m.drain(dataC, m.done)

	m.logger.Debug("Microphone started", "sample_rate", m.sampleRate)

	return nil
}

// Stop ends the capture, releases the device and returns the clip as MP3.
// A capture with no samples yields an empty Audio.
func (m *Microphone) Stop(ctx context.Context) (content.Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev == nil {
		return content.Audio{}, ErrNotRecording
	}

	m.release(ctx)

	pcm := m.pcm.Bytes()
	m.logger.Debug("Microphone stopped", "pcm_bytes", len(pcm))

	if len(pcm) < 2 {
		return content.Audio{}, nil
	}

	data, err := EncodeMP3(pcm, m.sampleRate)
	if err != nil {
		return content.Audio{}, err
	}

	return content.Audio{Data: data, ContentType: ContentType, Filename: Filename}, nil
}

// Release abandons a running capture. It is a no-op when idle.
func (m *Microphone) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dev == nil {
		return
	}

	m.release(context.Background())
	m.pcm.Reset()
	m.logger.Debug("Microphone released")
}

// Active reports whether a capture is running.
func (m *Microphone) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dev != nil
}

// Levels returns recent peak amplitudes, oldest first.
func (m *Microphone) Levels() []int16 {
	return m.levels.Recent()
}

// release stops and frees the device and waits for buffered packets.
// Callers hold m.mu.
func (m *Microphone) release(ctx context.Context) {
	if err := m.dev.Stop(ctx); err != nil {
		m.logger.Warn("Failed to stop capture device", "error", err)
	}
	m.dev.Dealloc(ctx)

	close(m.dataC)
	<-m.done

	m.dev = nil
	m.dataC = nil
	m.done = nil
}

func (m *Microphone) drain(dataC <-chan DataPacket, done chan<- struct{}) {
	defer close(done)

	for packet := range dataC {
		m.pcm.Write(packet)
		m.levels.Observe(packet)
	}
}
