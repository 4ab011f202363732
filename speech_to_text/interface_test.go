package speech_to_text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	segments := []Segment{
		{Text: " Hey talkie"},
		{Text: "[BLANK_AUDIO]"},
		{Text: "(music playing)"},
		{Text: "Hey talkie"},
		{Text: "   "},
		{Text: "what time is it"},
	}

	cleaned := Clean(segments)

	require.Len(t, cleaned, 2)
	require.Equal(t, "Hey talkie", cleaned[0].Text)
	require.Equal(t, "what time is it", cleaned[1].Text)
	require.Equal(t, "Hey talkie what time is it", Text(cleaned))
}

func TestClean_Empty(t *testing.T) {
	require.Empty(t, Clean(nil))
	require.Equal(t, "", Text(nil))
}
