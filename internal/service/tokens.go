package service

import "unicode/utf8"

// Token accounting for streaming answers, where the API reports no usage.
// The estimate tracks the OpenAI tokenizer closely enough for the usage
// counters shown in /balance; one-shot completions use the exact usage
// returned by the API instead.

const (
	runesPerToken    = 4
	tokensPerMessage = 4
)

// EstimateTokens approximates the token count of a piece of text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return utf8.RuneCountInString(text)/runesPerToken + 1
}

// EstimatePromptTokens approximates the input token count of a full prompt,
// including the per-message framing overhead.
func EstimatePromptTokens(messages []ChatMessage) int {
	n := 2
	for _, m := range messages {
		n += tokensPerMessage
		switch content := m.Content.(type) {
		case string:
			n += EstimateTokens(content)
		case []ContentPart:
			for _, part := range content {
				if part.Type == "text" {
					n += EstimateTokens(part.Text)
				}
			}
		}
	}
	return n
}
