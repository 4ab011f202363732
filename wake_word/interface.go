package wake_word

import "context"

// Stream is the audio source the detector listens on.
type Stream interface {
	ReadFrame(ctx context.Context) ([]int16, error)
	Close() error
}

// Detector listens on a stream until the wake phrase is heard (true) or its
// poll timeout elapses (false).
type Detector interface {
	Detect(ctx context.Context, stream Stream) (bool, error)
	Close() error
}

// Initializer acquires the detector and its stream. Both are released by
// the poller when it exits.
type Initializer interface {
	Initialize(ctx context.Context) (Detector, Stream, error)
}

type InitializerFunc func(ctx context.Context) (Detector, Stream, error)

func (f InitializerFunc) Initialize(ctx context.Context) (Detector, Stream, error) {
	return f(ctx)
}
