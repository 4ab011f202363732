// Package pipeline assembles the on-device wake word detector: an audio
// stream, a voice activity detector, the utterance extractor and a speech
// to text engine. Hardware backed parts come in through Drivers.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"talkie-assistant/audio_stream"
	"talkie-assistant/config"
	"talkie-assistant/speech_extraction"
	"talkie-assistant/speech_to_text"
	"talkie-assistant/vad"
	"talkie-assistant/wake_word"
	"talkie-assistant/wake_word/phrase"

	"github.com/spf13/afero"
)

type STTEngine interface {
	speech_to_text.Interface
	io.Closer
}

// Drivers open the parts that need native libraries. A nil driver makes
// the matching setting unavailable.
type Drivers struct {
	// OpenMicrophone returns the stream and its sample rate.
	OpenMicrophone func(settings config.WakeWord) (wake_word.Stream, int, error)
	NewWebRTCVAD   func(sampleRate, mode int) (vad.Detector, error)
	NewSTT         func(settings config.WakeWord) (STTEngine, error)
}

func Initializer(settings config.WakeWord, fileSys afero.Fs, drivers Drivers, logger *slog.Logger) wake_word.Initializer {
	if logger == nil {
		logger = slog.Default()
	}

	return wake_word.InitializerFunc(func(_ context.Context) (wake_word.Detector, wake_word.Stream, error) {
		return build(settings, fileSys, drivers, logger)
	})
}

// build releases whatever it already acquired when a later step fails.
func build(settings config.WakeWord, fileSys afero.Fs, drivers Drivers, logger *slog.Logger) (_ wake_word.Detector, _ wake_word.Stream, err error) {
	if drivers.NewSTT == nil {
		return nil, nil, fmt.Errorf("no speech to text driver")
	}

	stream, sampleRate, err := openStream(settings, fileSys, drivers)
	if err != nil {
		return nil, nil, err
	}

	defer func() {
		if err != nil {
			_ = stream.Close()
		}
	}()

	voiceDetector, err := newVAD(settings, sampleRate, drivers)
	if err != nil {
		return nil, nil, err
	}

	extractor, err := speech_extraction.New(&speech_extraction.Config{
		VAD:        voiceDetector,
		SampleRate: sampleRate,
		QuietTime:  settings.QuietTime,
		MaxTime:    settings.MaxTime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create extractor: %w", err)
	}

	var recorder *speech_extraction.Recorder
	if settings.RecordDir != "" {
		recorder, err = speech_extraction.NewRecorder(fileSys, settings.RecordDir)
		if err != nil {
			return nil, nil, err
		}
	}

	logger.Info("loading speech to text model", "path", settings.ModelPath)

	sttEngine, err := drivers.NewSTT(settings)
	if err != nil {
		return nil, nil, err
	}

	detector, err := phrase.New(&phrase.Config{
		Extractor:   extractor,
		STTEngine:   sttEngine,
		Phrase:      settings.Phrase,
		PollTimeout: settings.PollTimeout,
		Recorder:    recorder,
		Closer:      sttEngine,
		Logger:      logger,
	})
	if err != nil {
		_ = sttEngine.Close()

		return nil, nil, err
	}

	return detector, stream, nil
}

func openStream(settings config.WakeWord, fileSys afero.Fs, drivers Drivers) (wake_word.Stream, int, error) {
	switch settings.Stream {
	case "", "microphone":
		if drivers.OpenMicrophone == nil {
			return nil, 0, fmt.Errorf("no microphone driver")
		}

		return drivers.OpenMicrophone(settings)
	case "wav":
		wavFile, err := audio_stream.OpenWavFile(&audio_stream.WavFileConfig{
			FileSys:         fileSys,
			Path:            settings.WavPath,
			FramesPerBuffer: settings.FramesPerBuffer,
			Loop:            settings.WavLoop,
			Realtime:        true,
		})
		if err != nil {
			return nil, 0, err
		}

		return wavFile, wavFile.SampleRate(), nil
	default:
		return nil, 0, fmt.Errorf("unknown audio stream %q", settings.Stream)
	}
}

func newVAD(settings config.WakeWord, sampleRate int, drivers Drivers) (vad.Detector, error) {
	switch settings.VAD {
	case "", "flux":
		return vad.NewFlux(settings.FramesPerBuffer, sampleRate), nil
	case "webrtc":
		if drivers.NewWebRTCVAD == nil {
			return nil, fmt.Errorf("no webrtc vad driver")
		}

		return drivers.NewWebRTCVAD(sampleRate, settings.VADMode)
	default:
		return nil, fmt.Errorf("unknown vad %q", settings.VAD)
	}
}
