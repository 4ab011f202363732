package speech_extraction

import (
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Save(t *testing.T) {
	fs := afero.NewMemMapFs()

	recorder, err := NewRecorder(fs, "recordings")
	require.NoError(t, err)

	recorder.now = func() time.Time { return time.Unix(0, 42) }

	name, err := recorder.Save(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           []int{1, -1, 2, -2},
		SourceBitDepth: 16,
	})
	require.NoError(t, err)
	require.Equal(t, "recordings/utterance42.wav", name)

	data, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	require.Equal(t, "RIFF", string(data[:4]))
	require.Greater(t, len(data), 8)
}

func TestRecorder_Validation(t *testing.T) {
	_, err := NewRecorder(nil, "x")
	require.Error(t, err)

	_, err = NewRecorder(afero.NewMemMapFs(), "")
	require.Error(t, err)

	recorder, err := NewRecorder(afero.NewMemMapFs(), "x")
	require.NoError(t, err)

	_, err = recorder.Save(&audio.IntBuffer{})
	require.Error(t, err)
}
