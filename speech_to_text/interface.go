package speech_to_text

import (
	"strings"
	"time"

	"github.com/go-audio/audio"
)

type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

type Interface interface {
	Process(wavBuffer audio.Buffer) ([]Segment, error)
}

// Clean drops segments that are not speech (whisper marks sounds and music
// as "(...)" or "[...]") and repeated text, which whisper tends to emit
// when it hallucinates on silence.
func Clean(segments []Segment) []Segment {
	seenText := make(map[string]bool)
	out := make([]Segment, 0, len(segments))

	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}

		first, last := text[0], text[len(text)-1]
		if first == '(' || first == '[' || last == ')' || last == ']' {
			continue
		}

		if seenText[text] {
			continue
		}

		seenText[text] = true
		segment.Text = text
		out = append(out, segment)
	}

	return out
}

// Text joins segment texts with single spaces.
func Text(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}

	return strings.Join(parts, " ")
}
