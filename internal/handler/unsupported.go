package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

// handleUnsupported answers media types the bot can't process.
func (h *Handler) handleUnsupported(ctx context.Context, msg *models.Message) {
	if !h.isAddressed(msg) {
		return
	}
	slog.Debug("request rejected", "reason", domain.ErrUnsupportedMedia, "chat_id", msg.Chat.ID)
	h.sendText(ctx, msg.Chat.ID,
		"I don't know how to read files or videos. Send the <b>text</b>, a <b>photo</b> or a <b>voice message</b> instead 🤷‍♂️")
}
