package microphone

import (
	"context"
	"fmt"
	"sync"

	"talkie-assistant/audio_stream"

	"github.com/gordonklaus/portaudio"
)

const (
	DefaultSampleRate      = 16000
	DefaultFramesPerBuffer = 512
)

type Config struct {
	// DeviceName selects an input device by name; empty or "default" uses
	// the host default.
	DeviceName      string
	SampleRate      int
	FramesPerBuffer int
}

// Microphone is a blocking mono 16-bit portaudio input stream.
type Microphone struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	in     []int16
	closed bool
}

// Open initializes portaudio and starts capturing. The returned microphone
// owns the portaudio session; Close terminates it.
func Open(cfg *Config) (*Microphone, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	framesPerBuffer := cfg.FramesPerBuffer
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	in := make([]int16, framesPerBuffer)

	stream, err := openStream(cfg.DeviceName, float64(sampleRate), in)
	if err != nil {
		_ = portaudio.Terminate()

		return nil, err
	}

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()

		return nil, fmt.Errorf("start audio stream: %w", err)
	}

	return &Microphone{
		stream: stream,
		in:     in,
	}, nil
}

func openStream(deviceName string, sampleRate float64, in []int16) (*portaudio.Stream, error) {
	if deviceName == "" || deviceName == "default" {
		stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(in), in)
		if err != nil {
			return nil, fmt.Errorf("open default audio stream: %w", err)
		}

		return stream, nil
	}

	device, err := findDevice(deviceName)
	if err != nil {
		return nil, err
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: len(in),
	}, in)
	if err != nil {
		return nil, fmt.Errorf("open audio stream on %q: %w", deviceName, err)
	}

	return stream, nil
}

func findDevice(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}

	return nil, fmt.Errorf("input device not found: %s", name)
}

// ReadFrame blocks until one buffer of samples has been captured.
func (m *Microphone) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, audio_stream.ErrStreamClosed
	}

	// an overflow only means we dropped samples; the buffer is still usable
	if err := m.stream.Read(); err != nil && err != portaudio.InputOverflowed {
		return nil, fmt.Errorf("read audio stream: %w", err)
	}

	frame := make([]int16, len(m.in))
	copy(frame, m.in)

	return frame, nil
}

// Close stops and closes the stream and terminates portaudio.
func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true

	var firstErr error
	if err := m.stream.Stop(); err != nil {
		firstErr = fmt.Errorf("stop audio stream: %w", err)
	}

	if err := m.stream.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close audio stream: %w", err)
	}

	if err := portaudio.Terminate(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("terminate portaudio: %w", err)
	}

	return firstErr
}

type Device struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	Default           bool
}

// InputDevices lists devices that can capture audio.
func InputDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}

	var defaultName string
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultName = def.Name
	}

	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.MaxInputChannels == 0 {
			continue
		}

		out = append(out, Device{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			Default:           d.Name == defaultName,
		})
	}

	return out, nil
}
