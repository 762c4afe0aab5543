package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/middleware"
)

// handleCancel requests cooperative cancellation of the user's in-flight
// request. The gate slot is freed by its holder, not here.
func (h *Handler) handleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil || update.Message == nil {
		return
	}
	if !h.gate.Cancel(user.ID) {
		h.sendText(ctx, update.Message.Chat.ID, "<i>Nothing to cancel...</i>")
	}
}
