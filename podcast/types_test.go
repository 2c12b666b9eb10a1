package podcast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeaker_String(t *testing.T) {
	assert.Equal(t, "narrator", Narrator.String())
	assert.Equal(t, "host", Host.String())
	assert.Equal(t, "guest", Guest.String())
}

func TestSpeaker_JSONRoundTrip(t *testing.T) {
	seg := Segment{Speaker: Host, Text: "Hi there"}
	data, err := json.Marshal(seg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"speaker":"host","text":"Hi there"}`, string(data))

	var decoded Segment
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, seg, decoded)
}

func TestParseSpeaker(t *testing.T) {
	tests := []struct {
		input    string
		expected Speaker
		ok       bool
	}{
		{"narrator", Narrator, true},
		{"HOST", Host, true},
		{" Guest ", Guest, true},
		{"producer", Narrator, false},
		{"", Narrator, false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			sp, ok := ParseSpeaker(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, sp)
			}
		})
	}
}

func TestTracks_GetSet(t *testing.T) {
	var tracks Tracks
	for _, sp := range Speakers() {
		tracks.Set(sp, sp.String()+" line")
	}
	assert.Equal(t, "narrator line", tracks.Narrator)
	assert.Equal(t, "host line", tracks.Get(Host))
	assert.Equal(t, "guest line", tracks.Get(Guest))
}

func TestVoiceAssignment_WithDefaults(t *testing.T) {
	defaults := VoiceAssignment{Narrator: "n-default", Host: "h-default", Guest: "g-default"}

	t.Run("empty assignment uses all defaults", func(t *testing.T) {
		got := VoiceAssignment{}.WithDefaults(defaults)
		assert.Equal(t, defaults, got)
	})

	t.Run("partial assignment keeps explicit voices", func(t *testing.T) {
		got := VoiceAssignment{Host: "custom"}.WithDefaults(defaults)
		assert.Equal(t, "n-default", got.Narrator)
		assert.Equal(t, "custom", got.Host)
		assert.Equal(t, "g-default", got.Guest)
	})
}

func TestSpeakerAudio_Empty(t *testing.T) {
	var audio SpeakerAudio
	assert.True(t, audio.Empty())

	audio.Set(Guest, "YWJj")
	assert.False(t, audio.Empty())
	assert.Equal(t, "YWJj", audio.Get(Guest))
}
