package audio_stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

// ErrStreamClosed is returned by ReadFrame once a stream has been closed
// or, for non-looping file streams, fully consumed.
var ErrStreamClosed = errors.New("audio stream closed")

type WavFileConfig struct {
	FileSys         afero.Fs
	Path            string
	FramesPerBuffer int
	// Loop rewinds to the start of the file instead of ending the stream.
	Loop bool
	// Realtime paces ReadFrame to the file's sample rate, like a microphone.
	Realtime bool
}

// WavFile replays a PCM wav file as if it were a live input.
type WavFile struct {
	mu       sync.Mutex
	file     afero.File
	decoder  *wav.Decoder
	buf      *audio.IntBuffer
	channels int
	rate     int
	loop     bool
	realtime bool
	closed   bool
}

func OpenWavFile(cfg *WavFileConfig) (*WavFile, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if cfg.FramesPerBuffer <= 0 {
		return nil, fmt.Errorf("framesPerBuffer must be positive")
	}

	f, err := cfg.FileSys.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()

		return nil, fmt.Errorf("%s is not a valid wav file", cfg.Path)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		channels = 1
	}

	return &WavFile{
		file:    f,
		decoder: decoder,
		buf: &audio.IntBuffer{
			Data: make([]int, cfg.FramesPerBuffer*channels),
		},
		channels: channels,
		rate:     int(decoder.SampleRate),
		loop:     cfg.Loop,
		realtime: cfg.Realtime,
	}, nil
}

func (w *WavFile) SampleRate() int {
	return w.rate
}

// ReadFrame returns the next buffer of samples from the first channel.
func (w *WavFile) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	frame, err := w.readLocked()
	w.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if w.realtime && w.rate > 0 {
		wait := time.Duration(len(frame)) * time.Second / time.Duration(w.rate)
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return frame, nil
}

func (w *WavFile) readLocked() ([]int16, error) {
	if w.closed {
		return nil, ErrStreamClosed
	}

	n, err := w.decoder.PCMBuffer(w.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	if n == 0 {
		if !w.loop {
			return nil, ErrStreamClosed
		}

		if err := w.decoder.Rewind(); err != nil {
			return nil, fmt.Errorf("rewind wav: %w", err)
		}

		n, err = w.decoder.PCMBuffer(w.buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode wav: %w", err)
		}

		if n == 0 {
			return nil, ErrStreamClosed
		}
	}

	frame := make([]int16, n/w.channels)
	for i := range frame {
		frame[i] = int16(w.buf.Data[i*w.channels])
	}

	return frame, nil
}

func (w *WavFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true

	return w.file.Close()
}
