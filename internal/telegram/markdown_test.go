package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   int
	}{
		{"short stays whole", "hello", 4096, 1},
		{"exact fit stays whole", strings.Repeat("a", 10), 10, 1},
		{"splits in two", strings.Repeat("a", 15), 10, 2},
		{"splits in three", strings.Repeat("a", 25), 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := SplitMessage(tt.text, tt.maxLen)
			assert.Len(t, parts, tt.want)
			for _, p := range parts {
				assert.LessOrEqual(t, utf8.RuneCountInString(p), tt.maxLen)
			}
			assert.Equal(t, tt.text, strings.Join(parts, ""))
		})
	}
}

func TestSplitMessage_PrefersNewline(t *testing.T) {
	text := strings.Repeat("a", 7) + "\n" + strings.Repeat("b", 7)
	parts := SplitMessage(text, 10)

	assert.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("a", 7)+"\n", parts[0])
	assert.Equal(t, strings.Repeat("b", 7), parts[1])
}

func TestFixMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"balanced untouched", "some `code` here", "some `code` here"},
		{"closes dangling fence", "```go\nfunc main()", "```go\nfunc main()\n```"},
		{"closes dangling inline code", "run `ls -la", "run `ls -la`"},
		{"backticks inside fence ignored", "```\na ` b\n```", "```\na ` b\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FixMarkdown(tt.in))
		})
	}
}
