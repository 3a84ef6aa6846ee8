package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alkime/voicepost/pkg/collections"
	"github.com/gen2brain/malgo"
)

type Device interface {
	// CaptureInto initializes the underlying device and uses the provided
	// data channel to write packets of sampled bytes into when Start() is called.
	CaptureInto(ctx context.Context, dataC chan<- DataPacket) error

	// Start starts the audio device.
	Start(ctx context.Context) error
	// Stop stops the audio device.
	// if the underlying device has already been deallocated this is a no-op.
	Stop(ctx context.Context) error

	// Dealloc deallocates the underlying audio device and frees resources.
	// No packets are written after it returns.
	Dealloc(ctx context.Context)
}

type device struct {
	conf *DeviceConfig

	mgCtx    *malgo.AllocatedContext
	mgDevice *malgo.Device
}

func NewDevice(conf *DeviceConfig) Device {
	return &device{conf: conf}
}

// EnumerateDevices lists the available capture devices.
func EnumerateDevices(_ context.Context) ([]Info, error) {
	// An empty context is enough for listing devices.
	devCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(devCtx)

	captureDevices, err := devCtx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to get capture devices: %w", err)
	}

	return collections.Apply(captureDevices, malgoDeviceInfoToDeviceInfo), nil
}

func (d *device) CaptureInto(_ context.Context, dataC chan<- DataPacket) error {
	if dataC == nil {
		return errors.New("data channel is nil. unable to allocate device")
	}

	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	devCnf := malgo.DefaultDeviceConfig(malgo.Capture)
	devCnf.Capture.Format = d.conf.Format
	devCnf.Capture.Channels = uint32(d.conf.CaptureChannels)
	devCnf.SampleRate = uint32(d.conf.SampleRate)

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, samples []byte, _ uint32) {
			// malgo reuses the buffer between callbacks.
			packet := make([]byte, len(samples))
			copy(packet, samples)
			dataC <- packet
		},
	}

	mgDevice, err := malgo.InitDevice(mgCtx.Context, devCnf, callbacks)
	if err != nil {
		uninitializeContext(mgCtx)
		return fmt.Errorf("failed to initialize malgo device: %w", err)
	}

	d.mgCtx = mgCtx
	d.mgDevice = mgDevice

	return nil
}

func (d *device) Start(_ context.Context) error {
	if d.mgDevice == nil {
		return errors.New("device nil. have you allocated it with CaptureInto()?")
	}

	if d.mgDevice.IsStarted() {
		return nil
	}

	if err := d.mgDevice.Start(); err != nil {
		return fmt.Errorf("failed to start malgo device: %w", err)
	}

	return nil
}

func (d *device) Stop(_ context.Context) error {
	if d.mgDevice == nil {
		return nil
	}

	if err := d.mgDevice.Stop(); err != nil {
		return fmt.Errorf("failed to stop malgo device: %w", err)
	}

	return nil
}

func (d *device) Dealloc(_ context.Context) {
	if d.mgDevice == nil {
		return
	}

	d.mgDevice.Uninit()
	uninitializeContext(d.mgCtx)
	d.mgDevice = nil
	d.mgCtx = nil
}

type Info struct {
	Name      string
	IsDefault bool
	Formats   []string
}

func malgoDeviceInfoToDeviceInfo(mdi malgo.DeviceInfo) Info {
	formats := make([]string, len(mdi.Formats))
	for i, mf := range mdi.Formats {
		formats[i] = fmt.Sprintf("(SampleSizeBytes: %d, Channels: %d, SampleRate: %d)",
			malgo.SampleSizeInBytes(mf.Format),
			mf.Channels, mf.SampleRate)
	}

	return Info{
		Name:      mdi.Name(),
		IsDefault: mdi.IsDefault != 0,
		Formats:   formats,
	}
}

type DataPacket = []byte

func uninitializeContext(deviceCtx *malgo.AllocatedContext) {
	if deviceCtx == nil {
		return
	}

	if err := deviceCtx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	deviceCtx.Free()
}
