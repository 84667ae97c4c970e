package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when the model text holds no JSON object.
var ErrNoJSON = errors.New("no JSON object in model output")

// ExtractJSON decodes the JSON object embedded in model output into dst.
// Markdown code fences and any prose around the outermost braces are ignored.
func ExtractJSON(text string, dst interface{}) error {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return ErrNoJSON
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), dst); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}
