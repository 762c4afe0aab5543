package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
	"github.com/Timmn3/Chat-GPT-4/internal/gate"
	"github.com/Timmn3/Chat-GPT-4/internal/service"
	"github.com/Timmn3/Chat-GPT-4/internal/telegram"
)

// Handler holds all dependencies needed by command, callback and message
// handlers.
type Handler struct {
	bot     *bot.Bot
	cfg     *config.Config
	gate    *gate.Gate
	users   *service.UserService
	dialogs *service.DialogService
	chat    *service.ChatService
	openai  *service.OpenAIService
	ops     *telegram.OpsLogger

	botID       int64
	botUsername string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot     *bot.Bot
	Cfg     *config.Config
	Gate    *gate.Gate
	Users   *service.UserService
	Dialogs *service.DialogService
	Chat    *service.ChatService
	OpenAI  *service.OpenAIService
	Ops     *telegram.OpsLogger

	BotID       int64
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:         deps.Bot,
		cfg:         deps.Cfg,
		gate:        deps.Gate,
		users:       deps.Users,
		dialogs:     deps.Dialogs,
		chat:        deps.Chat,
		openai:      deps.OpenAI,
		ops:         deps.Ops,
		botID:       deps.BotID,
		botUsername: deps.BotUsername,
	}
}

// reportError logs the failure and mirrors it into the operator channel.
func (h *Handler) reportError(err error, origin string) {
	slog.Error("handler error", "origin", origin, "error", err)
	if h.ops != nil {
		h.ops.ReportError(err, origin)
	}
}

// sendText sends a plain HTML-formatted message, logging delivery failures.
func (h *Handler) sendText(ctx context.Context, chatID int64, text string) {
	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		slog.Warn("send message", "error", err, "chat_id", chatID)
	}
}
