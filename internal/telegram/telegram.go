package telegram

import (
	"context"
	"fmt"

	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/telegram/bot"
	"github.com/futig/rag-query-client/internal/telegram/handlers"
	"github.com/futig/rag-query-client/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// Deps are the services the bot front end queries through
type Deps struct {
	Usecase    handlers.QueryUsecase
	Formatters handlers.FormatterFactory
	Files      handlers.FileDownloader
}

// NewBot authorizes against the Bot API and wires the handlers
func NewBot(cfg *config.Config, deps Deps, logger *zap.Logger) (Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramCfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	store := state.NewStore(cfg.TelegramCfg.SettingsTTL, cfg.TelegramCfg.AnswerTTL)

	handler := handlers.NewHandler(
		api,
		deps.Usecase,
		store,
		deps.Formatters,
		deps.Files,
		cfg.FileUploadCfg.MaxFileSize,
		logger,
	)

	return bot.New(api, &cfg.TelegramCfg, handler, logger), nil
}
