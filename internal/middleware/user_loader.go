package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/service"
)

type ctxKey string

const UserKey ctxKey = "user"

// GetUser extracts the loaded user from context.
func GetUser(ctx context.Context) *domain.User {
	u, ok := ctx.Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return u
}

// UserLoader returns middleware that registers the sender on first contact,
// ensures an active dialog exists, and loads the user into context.
func UserLoader(users *service.UserService, dialogs *service.DialogService) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			var chatID int64

			switch {
			case update.Message != nil:
				from = update.Message.From
				chatID = update.Message.Chat.ID
			case update.EditedMessage != nil:
				from = update.EditedMessage.From
				chatID = update.EditedMessage.Chat.ID
			case update.CallbackQuery != nil:
				from = &update.CallbackQuery.From
				if update.CallbackQuery.Message.Message != nil {
					chatID = update.CallbackQuery.Message.Message.Chat.ID
				}
			}

			if from == nil || from.IsBot {
				next(ctx, b, update)
				return
			}

			user, err := users.RegisterIfAbsent(ctx, from.ID, chatID, from.Username, from.FirstName, from.LastName)
			if err != nil {
				slog.Error("register user", "error", err, "user_id", from.ID)
				next(ctx, b, update)
				return
			}

			if user.CurrentDialogID == nil {
				if _, err := dialogs.StartNew(ctx, user); err != nil {
					slog.Error("start initial dialog", "error", err, "user_id", user.ID)
				}
			}

			next(context.WithValue(ctx, UserKey, user), b, update)
		}
	}
}
