package recipients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// FileSource reads recipient ids from a JSON array such as [123456789, "-100200300"].
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ListRecipients returns the ids in file order without duplicates. A missing file yields
// no recipients, entries that are not integers or non-blank strings are skipped.
func (s *FileSource) ListRecipients(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("path", s.path).Msg("recipients file not found")
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recipients file %s: %w", s.path, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse recipients file %s: %w", s.path, err)
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, raw := range entries {
		id, ok := parseID(raw)
		if !ok {
			logger.Warn().
				Str("path", s.path).
				Int("index", i).
				RawJSON("entry", raw).
				Msg("skipping malformed recipient")
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(raw json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}

	switch id := v.(type) {
	case json.Number:
		if _, err := id.Int64(); err != nil {
			return "", false
		}
		return id.String(), true
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	default:
		return "", false
	}
}
