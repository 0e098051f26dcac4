package interview

import "strings"

// CompletionSentinel is the literal token the model emits inside its answer
// when it judges the interview finished. The prompt is tuned around this
// exact string; changing it breaks the completion contract.
const CompletionSentinel = "[INTERVIEW_COMPLETE]"

// ParseCompletion reports whether the sentinel occurs in the model's output
// and returns the text with every occurrence removed and surrounding
// whitespace trimmed. Without the sentinel the input is returned unchanged.
func ParseCompletion(text string) (cleaned string, done bool) {
	if !strings.Contains(text, CompletionSentinel) {
		return text, false
	}
	cleaned = strings.TrimSpace(strings.ReplaceAll(text, CompletionSentinel, ""))
	return cleaned, true
}
