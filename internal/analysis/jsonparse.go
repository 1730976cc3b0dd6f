package analysis

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	fenceOpen  = regexp.MustCompile("(?i)```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```")
)

// parseObject decodes a model reply that should hold one JSON object. It
// tolerates markdown fences and prose around the object; anything else is a
// parse failure.
func parseObject(raw string) (map[string]any, error) {
	cleaned := cleanModelOutput(raw)
	if cleaned == "" {
		return nil, &attemptError{kind: parseFailure, err: errors.New("empty reply")}
	}

	obj, err := decodeObject(cleaned)
	if err == nil {
		return obj, nil
	}
	if block := extractJSONBlock(cleaned); block != "" && block != cleaned {
		if obj, blockErr := decodeObject(block); blockErr == nil {
			return obj, nil
		}
	}
	return nil, &attemptError{kind: parseFailure, err: err}
}

func decodeObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("reply is not a JSON object")
	}
	return obj, nil
}

func cleanModelOutput(raw string) string {
	cleaned := fenceOpen.ReplaceAllString(raw, "")
	cleaned = fenceClose.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// extractJSONBlock returns the span from the first '{' to the last '}'.
func extractJSONBlock(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
