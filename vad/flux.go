package vad

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// DefaultRatio is how much the voice band has to rise over the previous
	// frame to count as speech onset, and fall to count as quiet.
	DefaultRatio = 1.75

	// fluxFloor stands in for the baseline of a digitally silent input so
	// the first sound after it still counts as onset.
	fluxFloor = 1e-3

	voiceBandLow  = 300.0
	voiceBandHigh = 3400.0
)

// Flux is a relative-energy detector: it compares the voice band magnitude
// of each frame with the last frame it accepted, so it adapts to the room's
// background level without calibration.
type Flux struct {
	frameSize  int
	sampleRate int
	ratio      float64

	lastFlux float64
	primed   bool
	speaking bool
}

func NewFlux(frameSize, sampleRate int) *Flux {
	return &Flux{
		frameSize:  frameSize,
		sampleRate: sampleRate,
		ratio:      DefaultRatio,
	}
}

// Flux returns the summed spectral magnitude of frame between 300 Hz and
// 3.4 kHz. Frames shorter than the configured size are zero padded.
func (f *Flux) Flux(frame []int16) float64 {
	in := make([]float64, f.frameSize)
	for i := 0; i < len(frame) && i < f.frameSize; i++ {
		in[i] = float64(frame[i]) / 32768
	}

	spectrum := fft.FFTReal(in)

	binWidth := float64(f.sampleRate) / float64(f.frameSize)

	var sum float64
	for i := 1; i < len(spectrum)/2; i++ {
		freq := float64(i) * binWidth
		if freq < voiceBandLow || freq > voiceBandHigh {
			continue
		}

		sum += cmplx.Abs(spectrum[i])
	}

	return sum
}

func (f *Flux) IsSpeech(frame []int16) (bool, error) {
	flux := f.Flux(frame)

	if !f.primed {
		f.primed = true
		f.lastFlux = math.Max(flux, fluxFloor)

		return false, nil
	}

	if f.speaking {
		if flux*f.ratio <= f.lastFlux {
			return false, nil
		}

		f.lastFlux = flux

		return true, nil
	}

	if flux >= f.lastFlux*f.ratio {
		f.speaking = true
		f.lastFlux = flux

		return true, nil
	}

	f.lastFlux = math.Max(flux, fluxFloor)

	return false, nil
}

func (f *Flux) Reset() {
	f.lastFlux = 0
	f.primed = false
	f.speaking = false
}
