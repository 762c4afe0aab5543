package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/middleware"
	"github.com/Timmn3/Chat-GPT-4/internal/service"
	"github.com/Timmn3/Chat-GPT-4/internal/telegram"
)

// HandleUpdate is the default handler: it routes every non-command update to
// the matching pipeline.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.EditedMessage != nil {
		h.handleEdited(ctx, update.EditedMessage)
		return
	}
	if update.Message == nil {
		return
	}

	msg := update.Message
	switch {
	case strings.HasPrefix(msg.Text, "/"):
		// Unknown command, registered commands never reach the default
		// handler.
		return
	case msg.Voice != nil:
		h.handleVoice(ctx, msg)
	case msg.Video != nil || msg.Document != nil:
		h.handleUnsupported(ctx, msg)
	default:
		user := middleware.GetUser(ctx)
		if user == nil {
			return
		}
		text := msg.Text
		if text == "" {
			text = msg.Caption
		}
		h.dispatch(ctx, msg, user, text, true)
	}
}

func (h *Handler) handleEdited(ctx context.Context, msg *models.Message) {
	if msg.Chat.Type != "private" {
		return
	}
	h.sendText(ctx, msg.Chat.ID, "🥲 Unfortunately, message <b>editing</b> is not supported")
}

// isAddressed reports whether a group message is meant for the bot: an
// explicit @mention or a reply to one of the bot's messages. Private chats
// are always addressed. When the update lacks the fields to decide, the
// message is treated as addressed rather than dropped.
func (h *Handler) isAddressed(msg *models.Message) bool {
	if msg.Chat.Type == "private" {
		return true
	}
	if h.botUsername == "" {
		return true
	}
	if strings.Contains(msg.Text, "@"+h.botUsername) || strings.Contains(msg.Caption, "@"+h.botUsername) {
		return true
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return msg.ReplyToMessage.From.ID == h.botID
	}
	return false
}

// dispatch runs one model request end to end: addressing and capability
// checks, the single-flight gate, session rollover, the completion with its
// streaming reconciliation, and exactly-once persistence of the finished turn.
func (h *Handler) dispatch(ctx context.Context, msg *models.Message, user *domain.User, text string, useTimeout bool) {
	chatID := msg.Chat.ID

	if !h.isAddressed(msg) {
		return
	}
	if h.botUsername != "" {
		text = strings.TrimSpace(strings.ReplaceAll(text, "@"+h.botUsername, ""))
	}

	if user.CurrentChatMode == "artist" {
		h.generateImage(ctx, msg, user, text)
		return
	}

	// A photo with a text-only model fails before a gate slot is consumed, so
	// a stuck attachment can never wedge the user's queue.
	hasPhoto := len(msg.Photo) > 0
	if hasPhoto && !domain.SupportsVision(user.CurrentModel) {
		h.sendText(ctx, chatID, fmt.Sprintf(
			"🥲 Model <b>%s</b> can't process images. Choose a vision model in /settings",
			user.CurrentModel))
		return
	}

	slot, err := h.gate.TryAcquire(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrBusy) {
			h.sendText(ctx, chatID, "⏳ Please <b>wait</b> for a reply to the previous message\nOr you can /cancel it")
			return
		}
		h.reportError(err, "acquire request slot")
		return
	}
	defer slot.Release()
	rctx := slot.Context()

	if useTimeout && h.dialogs.IsTimedOut(user, h.cfg.NewDialogTimeout) {
		history, err := h.dialogs.Messages(rctx, user.ID)
		if err == nil && len(history) > 0 {
			if _, err := h.dialogs.StartNew(rctx, user); err != nil {
				h.reportError(err, "timeout dialog rollover")
				return
			}
			mode, _ := domain.GetChatMode(user.CurrentChatMode)
			h.sendText(ctx, chatID, fmt.Sprintf(
				"Starting new dialog due to timeout (<b>%s</b> mode) ✅", mode.Name))
		}
	}

	if err := h.users.Touch(rctx, user.ID); err != nil {
		h.reportError(err, "touch user")
	}

	var imageBase64 string
	if hasPhoto {
		// Telegram orders photo sizes ascending; take the largest.
		photo := msg.Photo[len(msg.Photo)-1]
		data, _, err := telegram.DownloadFile(rctx, h.bot, photo.FileID)
		if err != nil {
			h.reportError(err, "download photo")
			h.sendText(ctx, chatID, "🥲 Couldn't download your photo. Please, try again!")
			return
		}
		imageBase64 = base64.StdEncoding.EncodeToString(data)
	}

	if text == "" && imageBase64 == "" {
		h.sendText(ctx, chatID, "🥲 You sent <b>empty message</b>. Please, try again!")
		return
	}

	mode, err := domain.GetChatMode(user.CurrentChatMode)
	if err != nil {
		mode = domain.ChatModes[domain.ChatModeKeys[0]]
	}

	history, err := h.dialogs.Messages(rctx, user.ID)
	if err != nil {
		h.reportError(err, "load dialog history")
		return
	}

	placeholder, err := h.bot.SendMessage(rctx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            "...",
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		h.reportError(err, "send placeholder")
		return
	}

	stopTyping := telegram.StartTyping(ctx, h.bot, chatID)
	defer stopTyping()

	snapshots := h.chat.Ask(rctx, service.AskRequest{
		Model:       user.CurrentModel,
		ChatMode:    mode,
		Message:     text,
		ImageBase64: imageBase64,
		History:     history,
		Stream:      h.cfg.EnableStreaming,
	})

	editor := telegram.NewMessageEditor(h.bot, chatID, placeholder.ID, telegram.ParseModeFor(mode))
	final, runErr := telegram.NewReconciler(editor).Run(rctx, snapshots)
	stopTyping()

	// Writes after this point must survive slot cancellation.
	wctx := context.WithoutCancel(ctx)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			// Partial usage still counts.
			if err := h.users.AddUsage(wctx, user.ID, user.CurrentModel, final.InputTokens, final.OutputTokens); err != nil {
				h.reportError(err, "account cancelled usage")
			}
			h.sendText(wctx, chatID, "✅ Canceled")
			return
		}
		if errors.Is(runErr, domain.ErrContextOverflow) {
			h.sendText(wctx, chatID,
				"🥲 Your message doesn't fit the model's context window even with an empty dialog. Send /new and try a shorter message")
			return
		}
		h.reportError(runErr, "completion")
		h.sendText(wctx, chatID, fmt.Sprintf(
			"Something went wrong during completion. Reason: %s", runErr))
		return
	}

	exchange := domain.DialogMessage{
		User:  text,
		Image: imageBase64,
		Bot:   final.Text,
		Date:  time.Now(),
	}
	if err := h.dialogs.AppendExchange(wctx, user.ID, final.Trimmed, exchange); err != nil {
		h.reportError(err, "persist exchange")
	}
	if err := h.users.AddUsage(wctx, user.ID, user.CurrentModel, final.InputTokens, final.OutputTokens); err != nil {
		h.reportError(err, "account usage")
	}

	// The placeholder holds at most one message worth of text; anything past
	// the ceiling goes out as follow-up messages.
	if utf8.RuneCountInString(final.Text) > telegram.MaxMessageLen {
		tail := string([]rune(final.Text)[telegram.MaxMessageLen:])
		if err := telegram.SendLongMessage(wctx, h.bot, chatID, tail, telegram.ParseModeFor(mode), nil); err != nil {
			h.reportError(err, "send answer tail")
		}
	}

	if final.Trimmed > 0 {
		var note string
		if final.Trimmed == 1 {
			note = "✍️ <i>Note:</i> Your current dialog is too long, so your <b>first message</b> was removed from the context.\n Send /new command to start new dialog"
		} else {
			note = fmt.Sprintf("✍️ <i>Note:</i> Your current dialog is too long, so <b>%d first messages</b> were removed from the context.\n Send /new command to start new dialog", final.Trimmed)
		}
		h.sendText(wctx, chatID, note)
	}
}
