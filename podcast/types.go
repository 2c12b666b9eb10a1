// Package podcast holds the domain types shared by the script pipeline,
// the synthesis service and the playback scheduler.
package podcast

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Speaker identifies one of the three fixed podcast voices
type Speaker int

const (
	Narrator Speaker = iota
	Host
	Guest
)

// Speakers returns all speakers in their conventional order, narrator first
func Speakers() []Speaker {
	return []Speaker{Narrator, Host, Guest}
}

// String returns the lowercase wire name of the speaker
func (s Speaker) String() string {
	switch s {
	case Narrator:
		return "narrator"
	case Host:
		return "host"
	case Guest:
		return "guest"
	}
	return fmt.Sprintf("speaker(%d)", int(s))
}

// MarshalJSON encodes the speaker as its lowercase name
func (s Speaker) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a speaker from its lowercase name
func (s *Speaker) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	sp, ok := ParseSpeaker(name)
	if !ok {
		return fmt.Errorf("unknown speaker %q", name)
	}
	*s = sp
	return nil
}

// ParseSpeaker maps a case-insensitive speaker name to its Speaker value
func ParseSpeaker(name string) (Speaker, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "narrator":
		return Narrator, true
	case "host":
		return Host, true
	case "guest":
		return Guest, true
	}
	return Narrator, false
}

// Segment is one contiguous run of dialogue attributed to a single speaker,
// in original script order
type Segment struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Tracks holds the full concatenated dialogue text per speaker
type Tracks struct {
	Narrator string `json:"narrator"`
	Host     string `json:"host"`
	Guest    string `json:"guest"`
}

// Get returns the track text for the given speaker
func (t Tracks) Get(s Speaker) string {
	switch s {
	case Narrator:
		return t.Narrator
	case Host:
		return t.Host
	case Guest:
		return t.Guest
	}
	return ""
}

// Set stores the track text for the given speaker
func (t *Tracks) Set(s Speaker, text string) {
	switch s {
	case Narrator:
		t.Narrator = text
	case Host:
		t.Host = text
	case Guest:
		t.Guest = text
	}
}

// ParsedScript is the output of the speaker parser: the ordered segment list
// and the aggregated per-speaker tracks
type ParsedScript struct {
	Segments []Segment
	Tracks   Tracks
}

// VoiceAssignment maps each speaker to an external voice identifier
type VoiceAssignment struct {
	Narrator string
	Host     string
	Guest    string
}

// Get returns the voice id assigned to the given speaker
func (v VoiceAssignment) Get(s Speaker) string {
	switch s {
	case Narrator:
		return v.Narrator
	case Host:
		return v.Host
	case Guest:
		return v.Guest
	}
	return ""
}

// WithDefaults fills empty assignments from the given defaults
func (v VoiceAssignment) WithDefaults(defaults VoiceAssignment) VoiceAssignment {
	if v.Narrator == "" {
		v.Narrator = defaults.Narrator
	}
	if v.Host == "" {
		v.Host = defaults.Host
	}
	if v.Guest == "" {
		v.Guest = defaults.Guest
	}
	return v
}

// SpeakerAudio holds base64-encoded synthesized audio per speaker;
// an empty string means no audio could be produced for that speaker
type SpeakerAudio struct {
	Narrator string `json:"narrator,omitempty"`
	Host     string `json:"host,omitempty"`
	Guest    string `json:"guest,omitempty"`
}

// Get returns the encoded audio for the given speaker
func (a SpeakerAudio) Get(s Speaker) string {
	switch s {
	case Narrator:
		return a.Narrator
	case Host:
		return a.Host
	case Guest:
		return a.Guest
	}
	return ""
}

// Set stores the encoded audio for the given speaker
func (a *SpeakerAudio) Set(s Speaker, data string) {
	switch s {
	case Narrator:
		a.Narrator = data
	case Host:
		a.Host = data
	case Guest:
		a.Guest = data
	}
}

// Empty reports whether no speaker has any audio
func (a SpeakerAudio) Empty() bool {
	return a.Narrator == "" && a.Host == "" && a.Guest == ""
}

// GenerationRequest is the input to the podcast generation service
type GenerationRequest struct {
	Topic          string
	SourceURL      string
	Voices         VoiceAssignment
	ScriptOverride string
	AudioOnly      bool
}

// GenerationResult is the unit returned by the generation service; the script
// portion is always valid even when audio generation degraded
type GenerationResult struct {
	Script     string
	Segments   []Segment
	Tracks     Tracks
	Audio      *SpeakerAudio
	AudioError string
}

// Voice is one entry of the voice catalog
type Voice struct {
	VoiceID string `json:"voice_id"`
	Name    string `json:"name"`
}
