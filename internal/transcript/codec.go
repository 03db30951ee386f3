package transcript

import (
	"encoding/json"
	"fmt"
)

// Encode serializes entries to the forwarded-history blob: a UTF-8 JSON
// array preserving kind, order, and text.
func Encode(entries []Entry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("transcript: encode: %w", err)
	}
	return string(data), nil
}

// Decode parses a forwarded-history blob back into an ordered entry
// sequence. An empty blob decodes to nil.
func Decode(blob string) ([]Entry, error) {
	if blob == "" {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(blob), &entries); err != nil {
		return nil, fmt.Errorf("transcript: decode: %w", err)
	}
	for i, e := range entries {
		switch e.Kind {
		case KindSystem, KindUser, KindSummary, KindAssistant:
		default:
			return nil, fmt.Errorf("transcript: decode: entry %d has unknown kind %q", i, e.Kind)
		}
	}
	return entries, nil
}
