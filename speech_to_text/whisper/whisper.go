package whisper

import (
	"fmt"
	"io"

	"talkie-assistant/speech_to_text"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/audio"
)

// Engine transcribes audio with a local whisper.cpp model.
type Engine struct {
	model    whisperlib.Model
	language string
}

type Config struct {
	ModelPath string
	// Language is a whisper language code such as "en" or "ko"; empty keeps
	// the model default.
	Language string
}

// New loads the whisper model. The caller must Close the engine to free it.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("model path is empty")
	}

	model, err := whisperlib.New(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %s: %w", cfg.ModelPath, err)
	}

	return &Engine{
		model:    model,
		language: cfg.Language,
	}, nil
}

func (stt *Engine) Process(wavBuffer audio.Buffer) ([]speech_to_text.Segment, error) {
	if wavBuffer == nil || wavBuffer.NumFrames() == 0 {
		return nil, nil
	}

	context, err := stt.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("new whisper context: %w", err)
	}

	if stt.language != "" {
		if err := context.SetLanguage(stt.language); err != nil {
			return nil, fmt.Errorf("set whisper language %q: %w", stt.language, err)
		}
	}

	data := toPCM(wavBuffer.AsIntBuffer())

	var cb whisperlib.SegmentCallback

	if err := context.Process(data, cb); err != nil {
		return nil, fmt.Errorf("whisper process: %w", err)
	}

	segments := make([]speech_to_text.Segment, 0)

	for {
		segment, err := context.NextSegment()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		segments = append(segments, speech_to_text.Segment{
			Start: segment.Start,
			End:   segment.End,
			Text:  segment.Text,
		})
	}

	return speech_to_text.Clean(segments), nil
}

func (stt *Engine) Close() error {
	return stt.model.Close()
}

// toPCM scales integer samples to the [-1, 1] range whisper expects.
func toPCM(buf *audio.IntBuffer) []float32 {
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}

	scale := float32(int(1) << (bitDepth - 1))

	out := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		out[i] = float32(s) / scale
	}

	return out
}
