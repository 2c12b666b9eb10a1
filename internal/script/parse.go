package script

import (
	"regexp"
	"strings"

	"github.com/verbalist/podcast-studio/podcast"
)

// speakerLabels matches a leading speaker label in bracketed ([NARRATOR]:)
// or bare (NARRATOR:) form, case-insensitively
var speakerLabels = map[podcast.Speaker]*regexp.Regexp{
	podcast.Narrator: regexp.MustCompile(`(?i)^(?:\[NARRATOR\]|NARRATOR):\s*`),
	podcast.Host:     regexp.MustCompile(`(?i)^(?:\[HOST\]|HOST):\s*`),
	podcast.Guest:    regexp.MustCompile(`(?i)^(?:\[GUEST\]|GUEST):\s*`),
}

// Parse partitions a script into ordered speaker-tagged segments and
// aggregated per-speaker tracks.
//
// The parser is a line-oriented state machine. Empty lines are discarded.
// A line starting with a speaker label opens a new segment for that speaker
// with the remainder of the line; an unlabeled line extends the current
// segment. Content appearing before any label is attributed to the narrator.
func Parse(text string) podcast.ParsedScript {
	lines := make(map[podcast.Speaker][]string)
	var segments []podcast.Segment

	var currentSpeaker podcast.Speaker
	haveSpeaker := false

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if speaker, content, ok := matchSpeakerLabel(line); ok {
			currentSpeaker = speaker
			haveSpeaker = true
			// a label always opens a new segment, even when the remainder
			// is empty; only non-empty content feeds the track
			segments = append(segments, podcast.Segment{Speaker: speaker, Text: content})
			if content != "" {
				lines[speaker] = append(lines[speaker], content)
			}
			continue
		}

		if !haveSpeaker {
			// content before the first label defaults to the narrator
			currentSpeaker = podcast.Narrator
			haveSpeaker = true
			segments = append(segments, podcast.Segment{Speaker: podcast.Narrator, Text: line})
			lines[podcast.Narrator] = append(lines[podcast.Narrator], line)
			continue
		}

		// continuation line: extend the most recent segment
		last := &segments[len(segments)-1]
		if last.Text == "" {
			last.Text = line
		} else {
			last.Text += "\n" + line
		}
		lines[currentSpeaker] = append(lines[currentSpeaker], line)
	}

	var tracks podcast.Tracks
	for _, speaker := range podcast.Speakers() {
		tracks.Set(speaker, strings.Join(lines[speaker], "\n"))
	}

	return podcast.ParsedScript{Segments: segments, Tracks: tracks}
}

// matchSpeakerLabel checks for a leading speaker label and returns the
// speaker plus the remainder of the line after the label
func matchSpeakerLabel(line string) (podcast.Speaker, string, bool) {
	for _, speaker := range podcast.Speakers() {
		re := speakerLabels[speaker]
		if loc := re.FindStringIndex(line); loc != nil && loc[0] == 0 {
			return speaker, strings.TrimSpace(line[loc[1]:]), true
		}
	}
	return podcast.Narrator, "", false
}
