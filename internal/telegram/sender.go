package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

const MaxMessageLen = config.MaxTelegramMessageLen

// ParseModeFor maps a chat mode's rendering choice onto Telegram parse modes.
func ParseModeFor(mode domain.ChatMode) models.ParseMode {
	if mode.ParseMode == "markdown" {
		return models.ParseModeMarkdownV1
	}
	return models.ParseModeHTML
}

// SendLongMessage sends a potentially long message, splitting it into parts
// if needed. Falls back to plain text when formatting fails to parse.
func SendLongMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, parseMode models.ParseMode, replyToID *int) error {
	if parseMode == models.ParseModeMarkdownV1 {
		text = FixMarkdown(text)
	}
	parts := SplitMessage(text, MaxMessageLen)

	for _, part := range parts {
		params := &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      part,
			ParseMode: parseMode,
		}
		if replyToID != nil {
			params.ReplyParameters = &models.ReplyParameters{MessageID: *replyToID}
			replyToID = nil // only reply to first part
		}

		_, err := b.SendMessage(ctx, params)
		if err != nil {
			slog.Warn("formatted send failed, falling back to plain text", "error", err)
			params.ParseMode = ""
			if _, err = b.SendMessage(ctx, params); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}

// StartTyping sends the "typing..." action every 4 seconds until the returned
// cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.SendChatAction(ctx, &bot.SendChatActionParams{
					ChatID: chatID,
					Action: models.ChatActionTyping,
				})
			}
		}
	}()
	return cancel
}

// SendPhotoURL sends a photo from a remote URL.
func SendPhotoURL(ctx context.Context, b *bot.Bot, chatID int64, url string) error {
	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileString{Data: url},
	})
	return err
}
