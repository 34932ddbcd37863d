package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/futig/rag-query-client/internal/api"
	queryapi "github.com/futig/rag-query-client/internal/api/query"
	"github.com/futig/rag-query-client/internal/api/ui"
	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/integration/rag"
	"github.com/futig/rag-query-client/internal/pkg/formatter"
	"github.com/futig/rag-query-client/internal/pkg/logger"
	"github.com/futig/rag-query-client/internal/pkg/validator"
	"github.com/futig/rag-query-client/internal/telegram"
	"github.com/futig/rag-query-client/internal/telegram/handlers"
	"github.com/futig/rag-query-client/internal/usecase/query"
	httpclient "github.com/futig/rag-query-client/pkg/http"
	"go.uber.org/zap"
)

// Build wires the web UI and JSON API server
func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	queryUC := buildQueryUsecase(cfg, log)
	formatters := formatter.NewFactory()

	queryHandler := queryapi.NewHandler(queryUC, formatters, cfg.FileUploadCfg)
	uiHandler, err := ui.NewHandler(queryUC, cfg.FileUploadCfg)
	if err != nil {
		return nil, fmt.Errorf("init ui handler: %w", err)
	}
	log.Info("HTTP handlers initialized")

	router := api.SetupRouter(cfg, queryHandler, uiHandler, log)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.String("rag_url", cfg.RAGConnectorCfg.Url),
	)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          log,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.ValidateTelegram(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	fileConnector := httpclient.NewConnector(
		&httpclient.ConnectorConfig{Logger: log},
		httpclient.WithRequestTimeout(cfg.TelegramCfg.FileTimeout),
		httpclient.WithRequestLogging(),
	)

	bot, err := telegram.NewBot(cfg, telegram.Deps{
		Usecase:    buildQueryUsecase(cfg, log),
		Formatters: formatter.NewFactory(),
		Files:      handlers.NewTelegramFiles(fileConnector),
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	log.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, log, nil
}

func buildQueryUsecase(cfg *config.Config, log *zap.Logger) *query.QueryUsecase {
	var ragConnector query.RagConnector
	if cfg.EnableMocks {
		log.Info("Using mock RAG connector")
		ragConnector = rag.NewMockConnector()
	} else {
		log.Info("Using real RAG connector", zap.String("url", cfg.RAGConnectorCfg.Url))
		ragConnector = rag.NewConnector(cfg.RAGConnectorCfg, log)
	}

	return query.NewUsecase(validator.NewValidator(cfg.FileUploadCfg), ragConnector)
}
