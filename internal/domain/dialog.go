package domain

import "time"

// Dialog is one bounded session of message turns between a user and the model.
type Dialog struct {
	ID        string
	UserID    int64
	ChatMode  string
	Model     string
	StartTime time.Time
	Messages  []DialogMessage
}

// DialogMessage is a single turn pair: what the user sent and what the bot
// answered. Image, when present, is the base64-encoded inline photo that
// accompanied the user text.
type DialogMessage struct {
	User  string    `json:"user"`
	Image string    `json:"image,omitempty"`
	Bot   string    `json:"bot"`
	Date  time.Time `json:"date"`
}
