package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akulkarni/docintel/internal/model"
)

// StripCodeFences removes markdown code-fence markers (typed and bare)
// that models emit around JSON despite instructions not to.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractObject returns the substring from the first '{' to the last '}'.
// This tolerates leading and trailing prose around the JSON object.
func ExtractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// ParseFieldObject recovers a name-keyed value object from a raw model
// response: fences stripped, object located by brace bounds, values
// decoded into the tagged variant with no further normalization.
func ParseFieldObject(raw string) (map[string]model.RawValue, error) {
	text := StripCodeFences(raw)
	obj, ok := ExtractObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object found in response (%d chars)", len(text))
	}

	var values map[string]model.RawValue
	if err := json.Unmarshal([]byte(obj), &values); err != nil {
		return nil, fmt.Errorf("parse response object: %w", err)
	}
	return values, nil
}
