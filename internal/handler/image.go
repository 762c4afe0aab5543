package handler

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/telegram"
)

// generateImage serves the artist mode: the message text becomes an image
// prompt instead of a completion request.
func (h *Handler) generateImage(ctx context.Context, msg *models.Message, user *domain.User, prompt string) {
	chatID := msg.Chat.ID

	if prompt == "" {
		h.sendText(ctx, chatID, "🥲 You sent <b>empty message</b>. Please, try again!")
		return
	}

	if err := h.users.Touch(ctx, user.ID); err != nil {
		h.reportError(err, "touch user")
	}

	h.bot.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionUploadPhoto,
	})

	urls, err := h.openai.GenerateImages(ctx, prompt, h.cfg.NGeneratedImages, h.cfg.ImageSize)
	if err != nil {
		if errors.Is(err, domain.ErrContentRejected) {
			h.sendText(ctx, chatID, "🥲 Your request <b>doesn't comply</b> with OpenAI's usage policies.\nWhat did you write there, huh?")
			return
		}
		h.reportError(err, "generate images")
		h.sendText(ctx, chatID, "🥲 Couldn't generate images. Please, try again!")
		return
	}

	if err := h.users.AddGeneratedImages(ctx, user.ID, len(urls)); err != nil {
		h.reportError(err, "account generated images")
	}

	for _, url := range urls {
		h.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionUploadPhoto,
		})
		if err := telegram.SendPhotoURL(ctx, h.bot, chatID, url); err != nil {
			h.reportError(err, "send generated image")
		}
	}
}
