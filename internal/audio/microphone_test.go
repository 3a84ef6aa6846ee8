package audio_test

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/alkime/voicepost/internal/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice replays canned packets when started.
type fakeDevice struct {
	packets  []audio.DataPacket
	startErr error
	dataC    chan<- audio.DataPacket
	stopped  bool
	deallocd bool
}

func (d *fakeDevice) CaptureInto(_ context.Context, dataC chan<- audio.DataPacket) error {
	d.dataC = dataC
	return nil
}

func (d *fakeDevice) Start(context.Context) error {
	if d.startErr != nil {
		return d.startErr
	}

	for _, p := range d.packets {
		d.dataC <- p
	}

	return nil
}

func (d *fakeDevice) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func (d *fakeDevice) Dealloc(context.Context) {
	d.deallocd = true
}

// pcm returns n S16LE samples alternating between +amp and -amp.
func pcm(n int, amp int16) []byte {
	out := make([]byte, n*2)
	for i := range n {
		s := amp
		if i%2 == 1 {
			s = -amp
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s)) //nolint:gosec // test data
	}

	return out
}

func newTestMicrophone(devices ...*fakeDevice) *audio.Microphone {
	i := 0

	return audio.NewMicrophone(audio.DefaultDeviceConfig(), audio.WithDeviceFactory(func() audio.Device {
		d := devices[i]
		i++

		return d
	}))
}

func TestMicrophone_RecordsMP3(t *testing.T) {
	// One second of audio split into packets.
	packets := []audio.DataPacket{pcm(8000, 1000), pcm(8000, 2000)}
	dev := &fakeDevice{packets: packets}
	mic := newTestMicrophone(dev)
	ctx := context.Background()

	require.NoError(t, mic.Start(ctx))
	assert.True(t, mic.Active())

	clip, err := mic.Stop(ctx)
	require.NoError(t, err)

	assert.False(t, mic.Active())
	assert.True(t, dev.stopped)
	assert.True(t, dev.deallocd, "device released on stop")
	assert.NotEmpty(t, clip.Data)
	assert.Equal(t, "audio/mpeg", clip.ContentType)
	assert.Equal(t, "recording.mp3", clip.Filename)
	assert.Equal(t, []int16{1000, 2000}, mic.Levels())
}

func TestMicrophone_Exclusive(t *testing.T) {
	mic := newTestMicrophone(&fakeDevice{}, &fakeDevice{})
	ctx := context.Background()

	require.NoError(t, mic.Start(ctx))
	require.ErrorIs(t, mic.Start(ctx), audio.ErrDeviceBusy)

	mic.Release()
	require.NoError(t, mic.Start(ctx), "device can be reacquired after release")
}

func TestMicrophone_StartFailureReleasesDevice(t *testing.T) {
	dev := &fakeDevice{startErr: errors.New("permission denied")}
	mic := newTestMicrophone(dev)

	err := mic.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.True(t, dev.deallocd)
	assert.False(t, mic.Active())
}

func TestMicrophone_StopWithoutStart(t *testing.T) {
	mic := newTestMicrophone()

	_, err := mic.Stop(context.Background())

	require.ErrorIs(t, err, audio.ErrNotRecording)
}

func TestMicrophone_SilentCaptureIsEmpty(t *testing.T) {
	mic := newTestMicrophone(&fakeDevice{})
	ctx := context.Background()

	require.NoError(t, mic.Start(ctx))
	clip, err := mic.Stop(ctx)

	require.NoError(t, err)
	assert.True(t, clip.Empty())
}

func TestMicrophone_ReleaseDiscardsAudio(t *testing.T) {
	dev := &fakeDevice{packets: []audio.DataPacket{pcm(1600, 500)}}
	mic := newTestMicrophone(dev)

	require.NoError(t, mic.Start(context.Background()))
	mic.Release()

	assert.True(t, dev.deallocd)
	assert.False(t, mic.Active())

	mic.Release()
}

func TestEncodeMP3(t *testing.T) {
	out, err := audio.EncodeMP3(pcm(audio.DefaultSampleRate, 3000), audio.DefaultSampleRate)

	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = audio.EncodeMP3(nil, audio.DefaultSampleRate)
	require.Error(t, err)

	_, err = audio.EncodeMP3(pcm(10, 1), 0)
	require.Error(t, err)
}

func TestBytesToInt16(t *testing.T) {
	assert.Nil(t, audio.BytesToInt16([]byte{1}))
	assert.Equal(t, []int16{1, -1}, audio.BytesToInt16([]byte{0x01, 0x00, 0xFF, 0xFF, 0x07}))
}

func TestLevels(t *testing.T) {
	levels := audio.NewLevels(3)
	assert.Nil(t, levels.Recent())

	for _, amp := range []int16{10, 20, 30, 40} {
		levels.Observe(pcm(4, amp))
	}
	assert.Equal(t, []int16{20, 30, 40}, levels.Recent(), "oldest peak dropped")

	levels.Observe(nil)
	assert.Len(t, levels.Recent(), 3)

	levels.Reset()
	assert.Nil(t, levels.Recent())
}

func TestPeakAmplitude(t *testing.T) {
	assert.Equal(t, int16(0), audio.PeakAmplitude(nil))
	assert.Equal(t, int16(7), audio.PeakAmplitude([]int16{3, -7, 5}))
	assert.Equal(t, int16(32767), audio.PeakAmplitude([]int16{-32768}))
}
