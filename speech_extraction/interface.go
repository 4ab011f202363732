package speech_extraction

import (
	"context"

	"github.com/go-audio/audio"
)

// FrameReader is a live source of 16-bit mono audio frames.
type FrameReader interface {
	ReadFrame(ctx context.Context) ([]int16, error)
}

type Interface interface {
	// Capture records one utterance from in. It returns an empty buffer
	// when ctx's deadline passes before any speech is heard.
	Capture(ctx context.Context, in FrameReader) (*audio.IntBuffer, error)
}
