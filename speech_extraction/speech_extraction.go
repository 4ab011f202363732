package speech_extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talkie-assistant/ring_buffer"
	"talkie-assistant/vad"

	"github.com/go-audio/audio"
)

const (
	DefaultQuietTime = time.Millisecond * 200
	DefaultPreRoll   = time.Millisecond * 500
)

type extractorImpl struct {
	vad        vad.Detector
	sampleRate int
	quietTime  time.Duration
	maxTime    time.Duration
	preRoll    int
}

type Config struct {
	VAD        vad.Detector
	SampleRate int
	// QuietTime is how long speech must stay quiet to end the utterance.
	QuietTime time.Duration
	// MaxTime caps the utterance length once speech has started; zero means
	// no cap.
	MaxTime time.Duration
	// PreRoll is how much audio from before speech onset is kept.
	PreRoll time.Duration
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.VAD == nil {
		return nil, fmt.Errorf("vad is nil")
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive")
	}

	quietTime := cfg.QuietTime
	if quietTime <= 0 {
		quietTime = DefaultQuietTime
	}

	preRoll := cfg.PreRoll
	if preRoll <= 0 {
		preRoll = DefaultPreRoll
	}

	return &extractorImpl{
		vad:        cfg.VAD,
		sampleRate: cfg.SampleRate,
		quietTime:  quietTime,
		maxTime:    cfg.MaxTime,
		preRoll:    samplesFor(preRoll, cfg.SampleRate),
	}, nil
}

func samplesFor(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}

// Capture times the utterance by counting samples rather than wall clock,
// so replayed files segment exactly like live input.
func (e *extractorImpl) Capture(ctx context.Context, in FrameReader) (*audio.IntBuffer, error) {
	var (
		heardSomething bool
		quietSamples   int
		heardSamples   int
	)

	e.vad.Reset()

	quietLimit := samplesFor(e.quietTime, e.sampleRate)
	maxSamples := samplesFor(e.maxTime, e.sampleRate)

	// keep a buffer of the first bit of audio before detection
	ringBuffer := ring_buffer.New(e.preRoll)

	intBuffer := make([]int, 0)

	for {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}

			return nil, err
		}

		frame, err := in.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
				break
			}

			return nil, err
		}

		speech, err := e.vad.IsSpeech(frame)
		if err != nil {
			return nil, err
		}

		if !heardSomething {
			if !speech {
				ringBuffer.Add(frame)
				continue
			}

			heardSomething = true

			for _, sample := range ringBuffer.Read() {
				intBuffer = append(intBuffer, int(sample))
			}
		}

		for _, sample := range frame {
			intBuffer = append(intBuffer, int(sample))
		}

		heardSamples += len(frame)

		if speech {
			quietSamples = 0
		} else {
			quietSamples += len(frame)
		}

		if quietSamples >= quietLimit {
			break
		}

		if maxSamples > 0 && heardSamples >= maxSamples {
			break
		}
	}

	if !heardSomething {
		intBuffer = intBuffer[:0]
	}

	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  e.sampleRate,
		},
		Data:           intBuffer,
		SourceBitDepth: 16,
	}, nil
}
