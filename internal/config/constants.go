package config

import "time"

const (
	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Streaming: minimum answer growth (in runes) before an edit is pushed.
	StreamEditThreshold = 100

	// Streaming: pause between pushed edits to stay under transport rate limits.
	StreamEditPause = 10 * time.Millisecond

	// AI request timeout
	RequestTimeout = 60 * time.Second

	// Completion options
	CompletionTemperature = 0.7
	CompletionMaxTokens   = 1000

	// Chat modes per page in the /mode menu
	ChatModesPerPage = 5

	// Defaults for new users
	DefaultChatMode = "assistant"
	DefaultModel    = "gpt-3.5-turbo"
)
