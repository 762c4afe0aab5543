package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/Timmn3/Chat-GPT-4/internal/config"
)

// OpsLogger mirrors failures into a Telegram operator channel, chunked to the
// platform message ceiling. A failure while reporting falls back to a minimal
// notice so the reporting path cannot take the process down.
type OpsLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewOpsLogger(b *bot.Bot, cfg *config.Config) *OpsLogger {
	return &OpsLogger{bot: b, cfg: cfg}
}

// ReportError renders an error with its origin context to the operator
// channel.
func (l *OpsLogger) ReportError(err error, origin string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}

	msg := fmt.Sprintf("❌ Error\n\nContext: %s\nError: %s\nTime: %s",
		origin, err.Error(), time.Now().Format("2006-01-02 15:04:05"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, chunk := range SplitMessage(msg, MaxMessageLen) {
		_, sendErr := l.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          l.cfg.LogTelegramChatID,
			Text:            chunk,
			MessageThreadID: l.cfg.LogTopicError,
		})
		if sendErr != nil {
			slog.Error("failed to send operator log", "error", sendErr)
			l.bot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: l.cfg.LogTelegramChatID,
				Text:   "error in the error reporter",
			})
			return
		}
	}
}
