package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/pkg/logger"
	"github.com/futig/rag-query-client/internal/telegram/handlers"
	"github.com/futig/rag-query-client/internal/telegram/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// UpdateHandler is what the bot routes normalized updates to
type UpdateHandler interface {
	HandleCommand(ctx context.Context, msg *handlers.Message, command string)
	HandleText(ctx context.Context, msg *handlers.Message)
	HandleDocument(ctx context.Context, msg *handlers.Message)
	HandleCallback(ctx context.Context, msg *handlers.Message)
}

// Bot represents the Telegram bot
type Bot struct {
	api         *tgbotapi.BotAPI
	cfg         *config.TelegramConfig
	handler     UpdateHandler
	logger      *zap.Logger
	loggingMW   *middleware.LoggingMiddleware
	recoveryMW  *middleware.RecoveryMiddleware
	rateLimitMW *middleware.RateLimiterMiddleware
	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// New creates a new Telegram bot over an authorized API client
func New(api *tgbotapi.BotAPI, cfg *config.TelegramConfig, handler UpdateHandler, logger *zap.Logger) *Bot {
	return &Bot{
		api:         api,
		cfg:         cfg,
		handler:     handler,
		logger:      logger,
		loggingMW:   middleware.NewLoggingMiddleware(logger),
		recoveryMW:  middleware.NewRecoveryMiddleware(logger, api),
		rateLimitMW: middleware.NewRateLimiterMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger, api),
		stopChan:    make(chan struct{}),
	}
}

// Start starts the bot
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	b.updatesChan = b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

// processUpdates processes incoming updates
func (b *Bot) processUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(u)
			}(update)
		}
	}
}

// handleUpdateWithMiddleware processes update through middleware chain
func (b *Bot) handleUpdateWithMiddleware(update tgbotapi.Update) {
	b.rateLimitMW.Handle(update, func(u tgbotapi.Update) {
		b.loggingMW.Handle(u, func(u2 tgbotapi.Update) {
			b.recoveryMW.Handle(u2, func(u3 tgbotapi.Update) {
				Route(context.Background(), b.logger, b.handler, u3)
			})
		})
	})
}

// Route normalizes an update and hands it to the matching handler method
func Route(ctx context.Context, log *zap.Logger, h UpdateHandler, update tgbotapi.Update) {
	ctx = logger.AddFields(ctxzap.ToContext(ctx, log), zap.Int("update_id", update.UpdateID))

	if q := update.CallbackQuery; q != nil {
		if q.Message == nil {
			return
		}
		ctx = logger.AddFields(ctx, zap.Int64("chat_id", q.Message.Chat.ID))
		h.HandleCallback(ctx, &handlers.Message{
			ChatID:       q.Message.Chat.ID,
			UserID:       q.From.ID,
			MessageID:    q.Message.MessageID,
			CallbackData: q.Data,
			CallbackID:   q.ID,
		})
		return
	}

	m := update.Message
	if m == nil || m.Chat == nil {
		return
	}
	ctx = logger.AddFields(ctx, zap.Int64("chat_id", m.Chat.ID))

	msg := &handlers.Message{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
		Caption:   m.Caption,
		Document:  m.Document,
	}
	if m.From != nil {
		msg.UserID = m.From.ID
	}

	switch {
	case m.IsCommand():
		h.HandleCommand(ctx, msg, m.Command())
	case m.Document != nil:
		h.HandleDocument(ctx, msg)
	case m.Text != "":
		h.HandleText(ctx, msg)
	default:
		h.HandleCommand(ctx, msg, "help")
	}
}
