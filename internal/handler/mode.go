package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/middleware"
	"github.com/Timmn3/Chat-GPT-4/internal/telegram"
)

// chatModesMenu renders one page of the chat mode picker.
func chatModesMenu(page int) (string, *models.InlineKeyboardMarkup) {
	perPage := config.ChatModesPerPage
	total := len(domain.ChatModeKeys)
	numPages := (total + perPage - 1) / perPage

	if page < 0 {
		page = 0
	}
	if page >= numPages {
		page = numPages - 1
	}

	start := page * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	var rows [][]models.InlineKeyboardButton
	for _, key := range domain.ChatModeKeys[start:end] {
		mode := domain.ChatModes[key]
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         mode.Name,
			CallbackData: "set_chat_mode|" + key,
		}})
	}

	if numPages > 1 {
		var nav []models.InlineKeyboardButton
		if page > 0 {
			nav = append(nav, models.InlineKeyboardButton{
				Text:         "«",
				CallbackData: fmt.Sprintf("show_chat_modes|%d", page-1),
			})
		}
		if page < numPages-1 {
			nav = append(nav, models.InlineKeyboardButton{
				Text:         "»",
				CallbackData: fmt.Sprintf("show_chat_modes|%d", page+1),
			})
		}
		rows = append(rows, nav)
	}

	text := fmt.Sprintf("Select <b>chat mode</b> (%d modes available):", total)
	return text, &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (h *Handler) handleMode(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil || update.Message == nil {
		return
	}
	if h.gate.Busy(user.ID) {
		h.sendText(ctx, update.Message.Chat.ID, "⏳ Please <b>wait</b> for a reply to the previous message\nOr you can /cancel it")
		return
	}
	if err := h.users.Touch(ctx, user.ID); err != nil {
		h.reportError(err, "show chat modes")
	}

	text, keyboard := chatModesMenu(0)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
}

func (h *Handler) handleChatModesPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})
	if cb.Message.Message == nil {
		return
	}

	page, err := strconv.Atoi(strings.TrimPrefix(cb.Data, "show_chat_modes|"))
	if err != nil {
		return
	}

	text, keyboard := chatModesMenu(page)
	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      cb.Message.Message.Chat.ID,
		MessageID:   cb.Message.Message.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil && !telegram.IsNotModified(err) {
		h.reportError(err, "chat modes pagination")
	}
}

func (h *Handler) handleSetChatMode(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	user := middleware.GetUser(ctx)
	if user == nil || cb.Message.Message == nil {
		return
	}
	chatID := cb.Message.Message.Chat.ID

	key := strings.TrimPrefix(cb.Data, "set_chat_mode|")
	mode, err := domain.GetChatMode(key)
	if err != nil {
		h.reportError(err, "set chat mode")
		return
	}

	if err := h.users.SetChatMode(ctx, user.ID, key); err != nil {
		h.reportError(err, "set chat mode")
		return
	}
	user.CurrentChatMode = key

	// Switching mode always opens a fresh dialog.
	if _, err := h.dialogs.StartNew(ctx, user); err != nil {
		h.reportError(err, "set chat mode")
		return
	}

	h.sendText(ctx, chatID, mode.WelcomeMessage)
}
