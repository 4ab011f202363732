package webrtc

import (
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"
)

var validRates = []int{8000, 16000, 32000, 48000}

// Detector wraps the WebRTC voice activity detector. A frame counts as
// speech when any 10ms window inside it is voiced.
type Detector struct {
	vad        *webrtcvad.VAD
	sampleRate int
}

// New creates a detector. Mode is the aggressiveness, 0 (least) to 3.
func New(sampleRate, mode int) (*Detector, error) {
	valid := false
	for _, r := range validRates {
		if sampleRate == r {
			valid = true
			break
		}
	}

	if !valid {
		return nil, fmt.Errorf("invalid sample rate %d, must be one of %v", sampleRate, validRates)
	}

	if mode < 0 {
		mode = 0
	}

	if mode > 3 {
		mode = 3
	}

	v, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("create webrtc vad: %w", err)
	}

	if err := v.SetMode(mode); err != nil {
		return nil, fmt.Errorf("set webrtc vad mode: %w", err)
	}

	return &Detector{
		vad:        v,
		sampleRate: sampleRate,
	}, nil
}

func (d *Detector) IsSpeech(frame []int16) (bool, error) {
	window := d.sampleRate / 100

	if len(frame) < window {
		padded := make([]int16, window)
		copy(padded, frame)
		frame = padded
	}

	for i := 0; i+window <= len(frame); i += window {
		active, err := d.vad.Process(d.sampleRate, toBytes(frame[i:i+window]))
		if err != nil {
			return false, fmt.Errorf("webrtc vad: %w", err)
		}

		if active {
			return true, nil
		}
	}

	return false, nil
}

// Reset is a no-op; the WebRTC detector smooths internally.
func (d *Detector) Reset() {}

func toBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}

	return out
}
