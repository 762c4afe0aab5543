package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/middleware"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil || update.Message == nil {
		return
	}
	if err := h.users.Touch(ctx, user.ID); err != nil {
		h.reportError(err, "start")
	}
	if _, err := h.dialogs.StartNew(ctx, user); err != nil {
		h.reportError(err, "start")
		return
	}

	h.sendText(ctx, update.Message.Chat.ID,
		"Hi! I'm <b>ChatGPT</b> bot implemented with the OpenAI API 🤖\n\n"+helpMessage)
}

func (h *Handler) handleNew(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil || update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if h.gate.Busy(user.ID) {
		h.sendText(ctx, chatID, "⏳ Please <b>wait</b> for a reply to the previous message\nOr you can /cancel it")
		return
	}
	if err := h.users.Touch(ctx, user.ID); err != nil {
		h.reportError(err, "new dialog")
	}
	if _, err := h.dialogs.StartNew(ctx, user); err != nil {
		h.reportError(err, "new dialog")
		return
	}

	h.sendText(ctx, chatID, "Starting new dialog ✅")

	mode, err := domain.GetChatMode(user.CurrentChatMode)
	if err != nil {
		mode = domain.ChatModes[domain.ChatModeKeys[0]]
	}
	h.sendText(ctx, chatID, mode.WelcomeMessage)
}

// handleRetry removes the last turn from the dialog and replays its user
// message through the normal text pipeline.
func (h *Handler) handleRetry(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil || update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if h.gate.Busy(user.ID) {
		h.sendText(ctx, chatID, "⏳ Please <b>wait</b> for a reply to the previous message\nOr you can /cancel it")
		return
	}

	last, err := h.dialogs.PopLast(ctx, user.ID)
	if err != nil {
		h.reportError(err, "retry")
		return
	}
	if last == nil {
		h.sendText(ctx, chatID, "No message to retry 🤷‍♂️")
		return
	}

	h.dispatch(ctx, update.Message, user, last.User, false)
}
