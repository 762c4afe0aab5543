package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	chatgpt4 "github.com/Timmn3/Chat-GPT-4"
	"github.com/Timmn3/Chat-GPT-4/internal/config"
	"github.com/Timmn3/Chat-GPT-4/internal/gate"
	"github.com/Timmn3/Chat-GPT-4/internal/handler"
	"github.com/Timmn3/Chat-GPT-4/internal/middleware"
	"github.com/Timmn3/Chat-GPT-4/internal/repository"
	"github.com/Timmn3/Chat-GPT-4/internal/service"
	"github.com/Timmn3/Chat-GPT-4/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(chatgpt4.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize services
	ledger := repository.NewLedger(pool)
	userService := service.NewUserService(ledger)
	dialogService := service.NewDialogService(ledger)
	openAI := service.NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIBase)
	chatService := service.NewChatService(openAI)
	requestGate := gate.New()

	// Handler pointer for use in the default handler closure
	var h *handler.Handler
	var ops *telegram.OpsLogger

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(func() middleware.ErrorReporter {
				if ops == nil {
					return nil
				}
				return ops
			}),
			middleware.Logging(),
			middleware.Access(cfg),
			middleware.UserLoader(userService, dialogService),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleUpdate(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true})
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	ops = telegram.NewOpsLogger(b, cfg)

	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Gate:        requestGate,
		Users:       userService,
		Dialogs:     dialogService,
		Chat:        chatService,
		OpenAI:      openAI,
		Ops:         ops,
		BotID:       me.ID,
		BotUsername: me.Username,
	})

	// Register command and callback handlers
	h.Register()
	h.SetupCommands(ctx)

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
