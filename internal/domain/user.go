package domain

import "time"

// TokenUsage is the cumulative token counter for one model.
type TokenUsage struct {
	InputTokens  int `json:"n_input_tokens"`
	OutputTokens int `json:"n_output_tokens"`
}

type User struct {
	ID        int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string

	FirstSeen       time.Time
	LastInteraction time.Time

	CurrentDialogID *string
	CurrentChatMode string
	CurrentModel    string

	// UsedTokens maps model name to cumulative usage.
	UsedTokens          map[string]TokenUsage
	NGeneratedImages    int
	NTranscribedSeconds float64
}
