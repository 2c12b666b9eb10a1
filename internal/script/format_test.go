package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes bold markers",
			input:    "[NARRATOR]: Welcome to **the show**",
			expected: "[NARRATOR]: Welcome to the show",
		},
		{
			name:     "removes italic markers",
			input:    "some *emphasized* text",
			expected: "some emphasized text",
		},
		{
			name:     "strips heading prefix keeping text",
			input:    "## Episode One\n[HOST]: Hello",
			expected: "Episode One\n[HOST]: Hello",
		},
		{
			name:     "heading stripping only applies at line starts",
			input:    "### deeply ## nested # headings",
			expected: "deeply ## nested # headings",
		},
		{
			name:     "stacked heading prefixes stripped in one pass",
			input:    "# # doubly marked title",
			expected: "doubly marked title",
		},
		{
			name:     "hash without trailing space is not a heading",
			input:    "[HOST]: issue #42 is fixed",
			expected: "[HOST]: issue #42 is fixed",
		},
		{
			name:     "collapses blank line runs",
			input:    "line one\n\n\n\nline two",
			expected: "line one\n\nline two",
		},
		{
			name:     "preserves double line breaks",
			input:    "line one\n\nline two",
			expected: "line one\n\nline two",
		},
		{
			name:     "plain text untouched",
			input:    "[GUEST]: Nothing to clean here.",
			expected: "[GUEST]: Nothing to clean here.",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Format(tc.input))
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"# Title\n\n\n\n**bold** and *italic*\n[HOST]: hi",
		"[NARRATOR]: plain\n\ntext",
		"### deeply ## nested # headings",
		"# # doubly marked title",
		"[GUEST]: rate it 5/5 # no notes",
		"***mixed*** markers **everywhere*",
		"",
	}

	for _, input := range inputs {
		once := Format(input)
		assert.Equal(t, once, Format(once), "format must be idempotent for %q", input)
	}
}
