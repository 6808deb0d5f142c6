package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateStructuredResponse checks a model response against the canonical
// JSON schema the request declared. It tolerates markdown code fences around
// the JSON object. On success it returns the extracted JSON document.
func ValidateStructuredResponse(schemaRaw json.RawMessage, content string) (json.RawMessage, error) {
	doc := ExtractJSONObject(content)
	if doc == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var instance any
	if err := json.Unmarshal([]byte(doc), &instance); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	schema, err := jsonschema.CompileString("response.schema.json", string(schemaRaw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("response failed schema validation: %w", err)
	}

	return json.RawMessage(doc), nil
}

// ExtractJSONObject returns the first top-level JSON object embedded in
// content, stripping markdown code fences if present. Returns "" when no
// balanced object is found.
func ExtractJSONObject(content string) string {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
