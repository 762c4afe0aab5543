package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
)

// Access returns middleware that drops updates from users outside the
// configured allow-list. An empty list allows everyone.
func Access(cfg *config.Config) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var username string
			var chatID int64

			switch {
			case update.Message != nil:
				chatID = update.Message.Chat.ID
				if update.Message.From != nil {
					username = update.Message.From.Username
				}
			case update.EditedMessage != nil:
				chatID = update.EditedMessage.Chat.ID
				if update.EditedMessage.From != nil {
					username = update.EditedMessage.From.Username
				}
			case update.CallbackQuery != nil:
				username = update.CallbackQuery.From.Username
				if update.CallbackQuery.Message.Message != nil {
					chatID = update.CallbackQuery.Message.Message.Chat.ID
				}
			default:
				next(ctx, b, update)
				return
			}

			if !cfg.IsAllowed(username, chatID) {
				slog.Debug("update dropped by access list", "username", username, "chat_id", chatID)
				return
			}
			next(ctx, b, update)
		}
	}
}
