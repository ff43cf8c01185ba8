package analyzer

import (
	"encoding/json"
	"strings"
)

// sanitizeResponse strips code-fence decoration and surrounding prose,
// returning the substring most likely to be a bare JSON object. The brace
// scan is greedy across the whole text (first '{' to last '}') so nested
// objects survive intact. If no brace block exists, the cleaned text is
// returned as-is.
func sanitizeResponse(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimSpace(strings.TrimLeft(text, "`"))
		if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
			text = strings.TrimSpace(text[4:])
		}
		if strings.HasSuffix(text, "```") {
			text = strings.TrimSpace(strings.TrimSuffix(text, "```"))
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

// extractJSON parses the sanitized text into a generic map. It tries a
// direct parse first, then falls back to the first-'{'/last-'}' substring
// for models that wrap the object in commentary despite instructions.
// Returns nil when nothing parses; never returns an error.
func extractJSON(cleaned string) map[string]any {
	if cleaned == "" {
		return nil
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		return parsed
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil
	}

	var fallback map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &fallback); err == nil {
		return fallback
	}

	return nil
}
