package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	mp3encoder "github.com/braheezy/shine-mp3/pkg/mp3"
)

// EncodeMP3 encodes mono S16LE PCM into an MP3 stream.
func EncodeMP3(pcm []byte, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}

	monoSamples := BytesToInt16(pcm)
	if len(monoSamples) == 0 {
		return nil, errors.New("no samples to encode")
	}

	// WORKAROUND: shine-mp3 Write() has a bug for mono (always increments by samples_per_pass * 2)
	// Convert mono to stereo by duplicating samples (L=R)
	stereoSamples := make([]int16, len(monoSamples)*2)
	for i, sample := range monoSamples {
		stereoSamples[i*2] = sample
		stereoSamples[i*2+1] = sample
	}

	slog.Debug("encoding MP3",
		"monoSamples", len(monoSamples),
		"sampleRate", sampleRate)

	var out bytes.Buffer
	encoder := mp3encoder.NewEncoder(sampleRate, 2)
	if err := encoder.Write(&out, stereoSamples); err != nil {
		return nil, fmt.Errorf("failed to encode audio to MP3: %w", err)
	}

	return out.Bytes(), nil
}

// BytesToInt16 converts S16LE (signed 16-bit little-endian) bytes to int16
// samples. A trailing odd byte is ignored.
func BytesToInt16(data []byte) []int16 {
	numSamples := len(data) / 2
	if numSamples == 0 {
		return nil
	}

	samples := make([]int16, numSamples)
	for i := range numSamples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:])) //nolint:gosec // reinterpreting S16LE
	}

	return samples
}
