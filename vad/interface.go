package vad

// Detector classifies successive frames of 16-bit mono audio as speech or
// not. Implementations may keep state between frames; Reset clears it
// before a new utterance is captured.
type Detector interface {
	IsSpeech(frame []int16) (bool, error)
	Reset()
}
