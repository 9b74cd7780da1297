package notify

import (
	"strings"
	"unicode/utf8"
)

const DefaultChunkSize = 3500

// SplitMessage cuts text into chunks of at most limit characters, breaking on line
// boundaries so Markdown entities stay intact. A line longer than limit is split hard.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkSize
	}
	if text == "" {
		return nil
	}

	var (
		chunks  []string
		chunk   strings.Builder
		size    int
		started bool
	)

	flush := func() {
		if chunk.Len() > 0 {
			chunks = append(chunks, chunk.String())
		}
		chunk.Reset()
		size = 0
		started = false
	}

	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)

		if started && size+1+n > limit {
			flush()
		}

		for n > limit {
			flush()
			head, tail := splitRunes(line, limit)
			chunks = append(chunks, head)
			line = tail
			n -= limit
		}

		if started {
			chunk.WriteByte('\n')
			size++
		}
		chunk.WriteString(line)
		size += n
		started = true
	}
	flush()
	return chunks
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
