package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON parses a JSON value out of a raw model completion. Providers
// routinely wrap their answer in a markdown fence with an optional language
// tag, so the fence is stripped before unmarshaling. Call sites pair this
// with a typed fallback value: a decode error must never propagate to users.
func DecodeJSON(raw string, v any) error {
	cleaned := stripFence(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("decode AI response: %w", err)
	}
	return nil
}

func stripFence(raw string) string {
	text := strings.TrimSpace(raw)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	parts := strings.Split(text, "```")
	if len(parts) < 2 {
		return text
	}

	inner := parts[1]
	if strings.HasPrefix(inner, "json") {
		inner = inner[4:]
	}

	return strings.TrimSpace(strings.Trim(inner, "`"))
}
