package handlers

import (
	"context"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/pkg/formatter"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPI is the subset of *tgbotapi.BotAPI the handlers use
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type QueryUsecase interface {
	AskReport(ctx context.Context, q *entity.ReportQuery) (*entity.Answer, error)
	AskDocument(ctx context.Context, q *entity.DocumentQuery) (*entity.Answer, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}

// FileDownloader fetches files Telegram stores for the bot
type FileDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
