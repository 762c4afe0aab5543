package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageEditor edits one placeholder message in place. It is the transport
// side of the streaming reconciler.
type MessageEditor struct {
	bot       *bot.Bot
	chatID    int64
	messageID int
	parseMode models.ParseMode
}

func NewMessageEditor(b *bot.Bot, chatID int64, messageID int, parseMode models.ParseMode) *MessageEditor {
	return &MessageEditor{bot: b, chatID: chatID, messageID: messageID, parseMode: parseMode}
}

func (e *MessageEditor) Edit(ctx context.Context, text string, formatted bool) error {
	params := &bot.EditMessageTextParams{
		ChatID:    e.chatID,
		MessageID: e.messageID,
		Text:      text,
	}
	if formatted {
		if e.parseMode == models.ParseModeMarkdownV1 {
			text = FixMarkdown(text)
			params.Text = text
		}
		params.ParseMode = e.parseMode
	}
	_, err := e.bot.EditMessageText(ctx, params)
	return err
}
