// Package script implements the text pipeline between the LLM output and the
// synthesizer: markdown cleanup and speaker segmentation.
package script

import "regexp"

var (
	boldMarkers   = regexp.MustCompile(`\*\*`)
	italicMarkers = regexp.MustCompile(`\*`)
	// anchored to line starts so hash runs inside dialogue survive; matching
	// repeated prefixes at once keeps a single pass a fixed point
	headingPrefix = regexp.MustCompile(`(?m)^(?:#+[ \t]+)+`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// Format cleans raw LLM output into plain script text: it removes bold and
// italic markers, strips markdown heading prefixes keeping the heading text,
// and collapses runs of three or more line breaks to exactly two.
// It is total and idempotent.
func Format(raw string) string {
	s := boldMarkers.ReplaceAllString(raw, "")
	s = italicMarkers.ReplaceAllString(s, "")
	s = headingPrefix.ReplaceAllString(s, "")
	s = blankLineRuns.ReplaceAllString(s, "\n\n")
	return s
}
