package session

import "strings"

// ClarificationMarker is the literal prefix the synthesis prompt tells
// the model to use when it needs more detail instead of returning SQL.
const ClarificationMarker = "[CLARIFICATION]"

// clarification reports whether the reply is a clarification request,
// returning the question text after the marker.
func clarification(reply string) (string, bool) {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, ClarificationMarker) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, ClarificationMarker)), true
}

// stripFences removes markdown code-fence decoration around SQL text.
func stripFences(reply string) string {
	s := strings.ReplaceAll(reply, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
