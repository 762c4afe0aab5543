package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/middleware"
	"github.com/Timmn3/Chat-GPT-4/internal/telegram"
)

// settingsMenu renders the model picker with the current model's description
// and score bars.
func settingsMenu(currentModel string) (string, *models.InlineKeyboardMarkup) {
	info, err := domain.GetModel(currentModel)
	if err != nil {
		currentModel = domain.AvailableTextModels[0]
		info = domain.TextModels[currentModel]
	}

	var sb strings.Builder
	sb.WriteString(info.Description)
	sb.WriteString("\n\n")
	for _, name := range []string{"Smart", "Fast", "Cheap"} {
		score := info.Scores[name]
		sb.WriteString(strings.Repeat("🟢", score))
		sb.WriteString(strings.Repeat("⚪️", 5-score))
		sb.WriteString(" – ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	sb.WriteString("\nSelect <b>model</b>:")

	var row []models.InlineKeyboardButton
	for _, id := range domain.AvailableTextModels {
		title := domain.TextModels[id].Name
		if id == currentModel {
			title = "✅ " + title
		}
		row = append(row, models.InlineKeyboardButton{
			Text:         title,
			CallbackData: "set_settings|" + id,
		})
	}

	// Keep rows at most 3 buttons wide.
	var rows [][]models.InlineKeyboardButton
	for len(row) > 0 {
		n := 3
		if len(row) < n {
			n = len(row)
		}
		rows = append(rows, row[:n])
		row = row[n:]
	}

	return sb.String(), &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (h *Handler) handleSettings(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil || update.Message == nil {
		return
	}
	if h.gate.Busy(user.ID) {
		h.sendText(ctx, update.Message.Chat.ID, "⏳ Please <b>wait</b> for a reply to the previous message\nOr you can /cancel it")
		return
	}
	if err := h.users.Touch(ctx, user.ID); err != nil {
		h.reportError(err, "settings")
	}

	text, keyboard := settingsMenu(user.CurrentModel)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
}

func (h *Handler) handleSetModel(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID})

	user := middleware.GetUser(ctx)
	if user == nil || cb.Message.Message == nil {
		return
	}

	model := strings.TrimPrefix(cb.Data, "set_settings|")
	if err := h.users.SetModel(ctx, user.ID, model); err != nil {
		h.reportError(err, "set model")
		return
	}
	user.CurrentModel = model

	text, keyboard := settingsMenu(model)
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      cb.Message.Message.Chat.ID,
		MessageID:   cb.Message.Message.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	if err != nil && !telegram.IsNotModified(err) {
		h.reportError(err, "set model")
	}
}
