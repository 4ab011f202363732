package speech_extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const frameLen = 1600 // 100ms at 16kHz

// levelVAD treats any frame whose first sample is non-zero as speech.
type levelVAD struct {
	resets int
}

func (v *levelVAD) IsSpeech(frame []int16) (bool, error) {
	return len(frame) > 0 && frame[0] != 0, nil
}

func (v *levelVAD) Reset() {
	v.resets++
}

type scriptedReader struct {
	levels []int16
	pos    int
	err    error
}

func (r *scriptedReader) ReadFrame(ctx context.Context) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.pos >= len(r.levels) {
		if r.err != nil {
			return nil, r.err
		}

		return make([]int16, frameLen), nil
	}

	frame := make([]int16, frameLen)
	for i := range frame {
		frame[i] = r.levels[r.pos]
	}

	r.pos++

	return frame, nil
}

func newExtractor(t *testing.T, v *levelVAD, maxTime time.Duration) Interface {
	t.Helper()

	e, err := New(&Config{
		VAD:        v,
		SampleRate: 16000,
		QuietTime:  200 * time.Millisecond,
		MaxTime:    maxTime,
		PreRoll:    100 * time.Millisecond,
	})
	require.NoError(t, err)

	return e
}

func TestCapture_Utterance(t *testing.T) {
	v := &levelVAD{}
	e := newExtractor(t, v, 0)

	reader := &scriptedReader{levels: []int16{0, 0, 5, 7, 0, 0, 9}}

	buf, err := e.Capture(context.Background(), reader)
	require.NoError(t, err)

	// one frame of pre-roll, two of speech, two of trailing quiet
	require.Len(t, buf.Data, 5*frameLen)
	require.Equal(t, 0, buf.Data[0])
	require.Equal(t, 5, buf.Data[frameLen])
	require.Equal(t, 7, buf.Data[2*frameLen])
	require.Equal(t, 16000, buf.Format.SampleRate)
	require.Equal(t, 6, reader.pos, "capture stops once quiet time is reached")
	require.Equal(t, 1, v.resets)
}

func TestCapture_MaxTime(t *testing.T) {
	e := newExtractor(t, &levelVAD{}, 300*time.Millisecond)

	reader := &scriptedReader{levels: []int16{3, 3, 3, 3, 3, 3, 3, 3}}

	buf, err := e.Capture(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, buf.Data, 3*frameLen)
}

func TestCapture_DeadlineWithoutSpeech(t *testing.T) {
	e := newExtractor(t, &levelVAD{}, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	buf, err := e.Capture(ctx, &scriptedReader{})
	require.NoError(t, err)
	require.Equal(t, 0, buf.NumFrames())
}

func TestCapture_Cancelled(t *testing.T) {
	e := newExtractor(t, &levelVAD{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Capture(ctx, &scriptedReader{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCapture_ReaderError(t *testing.T) {
	e := newExtractor(t, &levelVAD{}, 0)
	boom := errors.New("device unplugged")

	_, err := e.Capture(context.Background(), &scriptedReader{levels: []int16{0}, err: boom})
	require.ErrorIs(t, err, boom)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&Config{SampleRate: 16000})
	require.Error(t, err)

	_, err = New(&Config{VAD: &levelVAD{}})
	require.Error(t, err)
}
