package llm

import "strings"

// CleanJSONBlock recovers the JSON payload from raw model output. Models wrap
// JSON in ```json fences or surround it with prose even when instructed not
// to, so responses are unwrapped before schema validation sees them: strip a
// Markdown fence if present, then cut the first balanced JSON value out of
// whatever text remains. Input with no JSON value at all is returned as-is
// and left for schema validation to reject.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = unfence(text)
	}
	if extracted := firstJSONValue(text); extracted != "" {
		return extracted
	}
	return text
}

// unfence removes the surrounding Markdown code fence, tolerating a language
// tag ("json") on the opening line and a payload that starts on it.
func unfence(text string) string {
	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if isFenceTag(strings.TrimSpace(body[:nl])) {
			body = body[nl+1:]
		}
	} else {
		// Single-line fence: ```json {...}```
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// isFenceTag reports whether s looks like a fence language tag ("json", "js")
// rather than the start of the payload itself.
func isFenceTag(s string) bool {
	return len(s) < 20 && !strings.ContainsAny(s, " \t{}[]\"")
}

// firstJSONValue returns the first balanced JSON object or array in text,
// skipping any leading prose and dropping anything after the value. The scan
// is string-aware so braces inside quoted values do not end the value early.
// Returns "" when text holds no complete object or array.
func firstJSONValue(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}

	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = inString
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
