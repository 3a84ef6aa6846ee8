// Package audio captures microphone input and encodes it for upload.
package audio

import (
	"github.com/gen2brain/malgo"
)

const (
	// DefaultSampleRate is 16kHz, the native sample rate for Whisper.
	DefaultSampleRate = 16000
	// DefaultChannels is mono.
	DefaultChannels = 1

	// ContentType and Filename describe the clips produced by Microphone.
	ContentType = "audio/mpeg"
	Filename    = "recording.mp3"
)

type DeviceConfig struct {
	Format          malgo.FormatType
	CaptureChannels int
	SampleRate      int
}

// DefaultDeviceConfig captures 16kHz mono S16LE.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Format:          malgo.FormatS16,
		CaptureChannels: DefaultChannels,
		SampleRate:      DefaultSampleRate,
	}
}
