// Package native binds the pipeline drivers to portaudio, WebRTC VAD and
// whisper.cpp.
package native

import (
	"talkie-assistant/audio_stream/microphone"
	"talkie-assistant/config"
	"talkie-assistant/speech_to_text/whisper"
	"talkie-assistant/vad"
	"talkie-assistant/vad/webrtc"
	"talkie-assistant/wake_word"
	"talkie-assistant/wake_word/pipeline"
)

func Drivers() pipeline.Drivers {
	return pipeline.Drivers{
		OpenMicrophone: openMicrophone,
		NewWebRTCVAD: func(sampleRate, mode int) (vad.Detector, error) {
			return webrtc.New(sampleRate, mode)
		},
		NewSTT: func(settings config.WakeWord) (pipeline.STTEngine, error) {
			return whisper.New(&whisper.Config{
				ModelPath: settings.ModelPath,
				Language:  settings.Language,
			})
		},
	}
}

func openMicrophone(settings config.WakeWord) (wake_word.Stream, int, error) {
	mic, err := microphone.Open(&microphone.Config{
		DeviceName:      settings.Device,
		SampleRate:      settings.SampleRate,
		FramesPerBuffer: settings.FramesPerBuffer,
	})
	if err != nil {
		return nil, 0, err
	}

	sampleRate := settings.SampleRate
	if sampleRate <= 0 {
		sampleRate = microphone.DefaultSampleRate
	}

	return mic, sampleRate, nil
}
