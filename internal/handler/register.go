package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help_group_chat", bot.MatchTypePrefix, h.handleHelpGroupChat)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleHelp)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/new", bot.MatchTypePrefix, h.handleNew)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/retry", bot.MatchTypePrefix, h.handleRetry)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, h.handleCancel)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mode", bot.MatchTypePrefix, h.handleMode)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/settings", bot.MatchTypePrefix, h.handleSettings)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/balance", bot.MatchTypePrefix, h.handleBalance)

	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "show_chat_modes|", bot.MatchTypePrefix, h.handleChatModesPage)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "set_chat_mode|", bot.MatchTypePrefix, h.handleSetChatMode)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "set_settings|", bot.MatchTypePrefix, h.handleSetModel)
}

// SetupCommands publishes the bot command list shown in the Telegram menu.
func (h *Handler) SetupCommands(ctx context.Context) {
	_, err := h.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "/new", Description: "Start new dialog"},
			{Command: "/mode", Description: "Select chat mode"},
			{Command: "/retry", Description: "Re-generate response for previous query"},
			{Command: "/cancel", Description: "Cancel current request"},
			{Command: "/balance", Description: "Show balance"},
			{Command: "/settings", Description: "Show settings"},
			{Command: "/help", Description: "Show help message"},
		},
	})
	if err != nil {
		slog.Error("set bot commands", "error", err)
	}
}
