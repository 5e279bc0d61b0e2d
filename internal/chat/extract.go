package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/furkancam7/lifeplan/internal/profile"
)

type extraction struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

// parseExtraction validates a generator extraction reply. Models often wrap
// JSON in code fences; those are stripped before decoding. The extracted
// value still goes through the slot's own parser, so a hallucinated value
// that doesn't fit the field fails here rather than reaching the store.
func parseExtraction(slot profile.Slot, raw string) (any, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var ex extraction
	if err := json.Unmarshal([]byte(cleaned), &ex); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	if !ex.Found || strings.TrimSpace(ex.Value) == "" {
		return nil, fmt.Errorf("no %s found in message", slot.Label)
	}
	return slot.ParseAnswer(ex.Value)
}
