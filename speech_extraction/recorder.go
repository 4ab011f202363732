package speech_extraction

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-audio/audio"
	"github.com/spf13/afero"
	"github.com/zenwerk/go-wave"
)

// Recorder saves captured utterances as 16-bit mono wav files, one per
// call, named after the capture time.
type Recorder struct {
	fileSys afero.Fs
	dir     string
	now     func() time.Time
}

func NewRecorder(fileSys afero.Fs, dir string) (*Recorder, error) {
	if fileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if dir == "" {
		return nil, fmt.Errorf("recording dir is empty")
	}

	if err := fileSys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recording dir: %w", err)
	}

	return &Recorder{
		fileSys: fileSys,
		dir:     dir,
		now:     time.Now,
	}, nil
}

func (r *Recorder) Save(buf *audio.IntBuffer) (string, error) {
	if buf == nil || buf.Format == nil {
		return "", fmt.Errorf("buffer has no format")
	}

	waveFilename := filepath.Join(r.dir, "utterance"+strconv.FormatInt(r.now().UnixNano(), 10)+".wav")

	waveFile, err := r.fileSys.Create(waveFilename)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", waveFilename, err)
	}

	waveWriter, err := wave.NewWriter(wave.WriterParam{
		Out:           waveFile,
		Channel:       1,
		SampleRate:    buf.Format.SampleRate,
		BitsPerSample: 16,
	})
	if err != nil {
		_ = waveFile.Close()

		return "", fmt.Errorf("wave writer: %w", err)
	}

	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = int16(s)
	}

	if _, err := waveWriter.WriteSample16(samples); err != nil {
		_ = waveWriter.Close()

		return "", fmt.Errorf("write %s: %w", waveFilename, err)
	}

	// closing the writer finalizes the header and closes the file
	if err := waveWriter.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", waveFilename, err)
	}

	return waveFilename, nil
}
