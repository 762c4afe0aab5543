package telegram

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage splits text into chunks of at most maxLen runes, preferring to
// split at a newline when one falls in the second half of the chunk.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= maxLen {
			parts = append(parts, string(runes))
			break
		}

		splitAt := maxLen
		chunk := string(runes[:maxLen])
		if nl := strings.LastIndex(chunk, "\n"); nl > maxLen/2 {
			splitAt = utf8.RuneCountInString(chunk[:nl]) + 1
		}

		parts = append(parts, string(runes[:splitAt]))
		runes = runes[splitAt:]
	}
	return parts
}

// FixMarkdown closes dangling code fences and inline code spans so a
// partially streamed answer still parses as Markdown.
func FixMarkdown(text string) string {
	if strings.Count(text, "```")%2 != 0 {
		text += "\n```"
	}
	return closeInlineCode(text)
}

func closeInlineCode(text string) string {
	var b strings.Builder
	inFence := false
	inlineOpen := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && string(runes[i:i+3]) == "```" {
			if inlineOpen {
				b.WriteRune('`')
				inlineOpen = false
			}
			inFence = !inFence
			b.WriteString("```")
			i += 2
			continue
		}
		if !inFence && runes[i] == '`' {
			inlineOpen = !inlineOpen
		}
		b.WriteRune(runes[i])
	}

	if inlineOpen {
		b.WriteRune('`')
	}
	return b.String()
}
