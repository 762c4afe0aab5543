package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrorReporter mirrors failures to the operator channel.
type ErrorReporter interface {
	ReportError(err error, origin string)
}

// Recover returns middleware that recovers from handler panics, logs them and
// reports them to the operator channel. The reporter is resolved lazily since
// it needs the bot instance, which is created after the middleware chain.
func Recover(reporter func() ErrorReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic recovered in handler",
						"panic", r,
						"stack", string(debug.Stack()),
					)
					if reporter == nil {
						return
					}
					if rep := reporter(); rep != nil {
						rep.ReportError(fmt.Errorf("panic: %v\n%s", r, debug.Stack()), "update handler")
					}
				}
			}()
			next(ctx, b, update)
		}
	}
}
