package handler

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/middleware"
	"github.com/Timmn3/Chat-GPT-4/internal/telegram"
)

// handleVoice transcribes a voice note, echoes the recognized text and feeds
// it through the normal text pipeline. Transcription happens outside the
// single-flight gate; only the completion consumes the user's slot.
func (h *Handler) handleVoice(ctx context.Context, msg *models.Message) {
	user := middleware.GetUser(ctx)
	if user == nil || msg.Voice == nil {
		return
	}
	chatID := msg.Chat.ID

	if !h.isAddressed(msg) {
		return
	}
	if h.gate.Busy(user.ID) {
		h.sendText(ctx, chatID, "⏳ Please <b>wait</b> for a reply to the previous message\nOr you can /cancel it")
		return
	}

	audio, _, err := telegram.DownloadFile(ctx, h.bot, msg.Voice.FileID)
	if err != nil {
		h.reportError(err, "download voice")
		h.sendText(ctx, chatID, "🥲 Couldn't download your voice message. Please, try again!")
		return
	}

	text, err := h.openai.Transcribe(ctx, audio, "voice.oga")
	if err != nil {
		h.reportError(err, "transcribe voice")
		h.sendText(ctx, chatID, "🥲 Couldn't recognize your voice message. Please, try again!")
		return
	}

	h.sendText(ctx, chatID, "🎤: <i>"+text+"</i>")

	if err := h.users.AddTranscribedSeconds(ctx, user.ID, float64(msg.Voice.Duration)); err != nil {
		h.reportError(err, "account transcription")
	}

	h.dispatch(ctx, msg, user, text, true)
}
