package notify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		limit    int
		expected []string
	}{
		{name: "empty", text: "", limit: 10, expected: nil},
		{name: "fits", text: "a\nb", limit: 10, expected: []string{"a\nb"}},
		{name: "breaks on lines", text: "aaaa\nbbbb\ncccc", limit: 9, expected: []string{"aaaa\nbbbb", "cccc"}},
		{name: "exact fit", text: "aaaa\nbbbb", limit: 9, expected: []string{"aaaa\nbbbb"}},
		{name: "long line is hard split", text: "ab\nccccccc\nd", limit: 3, expected: []string{"ab", "ccc", "ccc", "c\nd"}},
		{name: "counts characters not bytes", text: "План\nФакт", limit: 9, expected: []string{"План\nФакт"}},
		{name: "blank lines kept", text: "a\n\nb", limit: 10, expected: []string{"a\n\nb"}},
		{name: "default limit", text: "x", limit: 0, expected: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitMessage(tt.text, tt.limit))
		})
	}
}

func TestSplitMessage_NoChunkExceedsLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 400; i++ {
		b.WriteString(strings.Repeat("Зал ", i%17))
		b.WriteString("\n")
	}
	text := b.String()

	chunks := SplitMessage(text, 100)

	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 100)
	}
	assert.Equal(t, strings.ReplaceAll(text, "\n", ""), strings.ReplaceAll(strings.Join(chunks, ""), "\n", ""))
}
