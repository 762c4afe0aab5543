package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
	"github.com/Timmn3/Chat-GPT-4/internal/middleware"
)

const tokensPerPrice = 1000

// handleBalance renders the cumulative spend ledger: per-model token usage,
// generated images and transcribed voice, priced in USD with exact decimal
// arithmetic.
func (h *Handler) handleBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	user := middleware.GetUser(ctx)
	if user == nil || update.Message == nil {
		return
	}
	if err := h.users.Touch(ctx, user.ID); err != nil {
		h.reportError(err, "balance")
	}

	total := decimal.Zero
	var details strings.Builder

	for _, modelID := range domain.AvailableTextModels {
		usage, ok := user.UsedTokens[modelID]
		if !ok || (usage.InputTokens == 0 && usage.OutputTokens == 0) {
			continue
		}
		info := domain.TextModels[modelID]
		spent := decimal.NewFromFloat(info.PricePer1KInput).
			Mul(decimal.NewFromInt(int64(usage.InputTokens))).
			Add(decimal.NewFromFloat(info.PricePer1KOutput).
				Mul(decimal.NewFromInt(int64(usage.OutputTokens)))).
			Div(decimal.NewFromInt(tokensPerPrice))
		total = total.Add(spent)

		fmt.Fprintf(&details, "- %s: <b>%s$</b> / <b>%d tokens</b>\n",
			modelID, spent.StringFixed(3), usage.InputTokens+usage.OutputTokens)
	}

	if user.NGeneratedImages > 0 {
		spent := decimal.NewFromFloat(domain.DallEPricePerImage).
			Mul(decimal.NewFromInt(int64(user.NGeneratedImages)))
		total = total.Add(spent)
		fmt.Fprintf(&details, "- DALL·E (image generation): <b>%s$</b> / <b>%d images</b>\n",
			spent.StringFixed(3), user.NGeneratedImages)
	}

	if user.NTranscribedSeconds > 0 {
		minutes := decimal.NewFromFloat(user.NTranscribedSeconds).
			Div(decimal.NewFromInt(60))
		spent := decimal.NewFromFloat(domain.WhisperPricePerMin).Mul(minutes)
		total = total.Add(spent)
		fmt.Fprintf(&details, "- Whisper (voice recognition): <b>%s$</b> / <b>%s minutes</b>\n",
			spent.StringFixed(3), minutes.StringFixed(1))
	}

	text := fmt.Sprintf("You spent <b>%s$</b>\n\n", total.StringFixed(3))
	if details.Len() > 0 {
		text += "🏷️ Details:\n" + details.String()
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
}
