package phrase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"talkie-assistant/speech_extraction"
	"talkie-assistant/speech_to_text"
	"talkie-assistant/wake_word"
)

const (
	DefaultPhrase      = "hey talkie"
	DefaultPollTimeout = 3 * time.Second
)

// Detector listens for one utterance per call, transcribes it and reports
// whether it contained the wake phrase.
type Detector struct {
	extractor   speech_extraction.Interface
	sttEngine   speech_to_text.Interface
	phrase      string
	pollTimeout time.Duration
	recorder    *speech_extraction.Recorder
	closer      io.Closer
	logger      *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

type Config struct {
	Extractor speech_extraction.Interface
	STTEngine speech_to_text.Interface
	Phrase    string
	// PollTimeout bounds a single Detect call. Speech still in progress when
	// it expires is transcribed as is.
	PollTimeout time.Duration
	// Recorder, if set, keeps every captured utterance on disk.
	Recorder *speech_extraction.Recorder
	// Closer is closed with the detector, typically the stt engine.
	Closer io.Closer
	Logger *slog.Logger
}

func New(cfg *Config) (*Detector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is nil")
	}

	if cfg.STTEngine == nil {
		return nil, fmt.Errorf("sttEngine is nil")
	}

	phrase := Normalize(cfg.Phrase)
	if phrase == "" {
		phrase = DefaultPhrase
	}

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Detector{
		extractor:   cfg.Extractor,
		sttEngine:   cfg.STTEngine,
		phrase:      phrase,
		pollTimeout: pollTimeout,
		recorder:    cfg.Recorder,
		closer:      cfg.Closer,
		logger:      logger.With("component", "wake_phrase"),
	}, nil
}

func (d *Detector) Detect(ctx context.Context, stream wake_word.Stream) (bool, error) {
	pollCtx, cancel := context.WithTimeout(ctx, d.pollTimeout)
	defer cancel()

	waveBuffer, err := d.extractor.Capture(pollCtx, stream)
	if err != nil {
		return false, fmt.Errorf("capture utterance: %w", err)
	}

	if waveBuffer == nil || waveBuffer.NumFrames() == 0 {
		return false, nil
	}

	if d.recorder != nil {
		if path, err := d.recorder.Save(waveBuffer); err != nil {
			d.logger.Warn("failed to record utterance", "err", err)
		} else {
			d.logger.Debug("recorded utterance", "path", path)
		}
	}

	segments, err := d.sttEngine.Process(waveBuffer)
	if err != nil {
		return false, fmt.Errorf("transcribe utterance: %w", err)
	}

	for _, segment := range segments {
		d.logger.Debug("heard",
			"start", segment.Start.Truncate(time.Millisecond),
			"end", segment.End.Truncate(time.Millisecond),
			"text", segment.Text)
	}

	text := speech_to_text.Text(segments)
	if !Matches(text, d.phrase) {
		return false, nil
	}

	d.logger.Info("wake phrase heard", "text", text)

	return true, nil
}

func (d *Detector) Close() error {
	d.closeOnce.Do(func() {
		if d.closer != nil {
			d.closeErr = d.closer.Close()
		}
	})

	return d.closeErr
}

// Normalize lowercases text and keeps only ASCII letters, digits and single
// spaces, so punctuation added by the transcriber never breaks a match.
func Normalize(text string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ', r == '\t', r == '\n', r == '-':
			return ' '
		}

		return -1
	}, text)

	return strings.Join(strings.Fields(kept), " ")
}

// Matches reports whether phrase occurs in text on word boundaries.
func Matches(text, phrase string) bool {
	phrase = Normalize(phrase)
	if phrase == "" {
		return false
	}

	return strings.Contains(" "+Normalize(text)+" ", " "+phrase+" ")
}
