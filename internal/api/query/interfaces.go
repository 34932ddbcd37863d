package query

import (
	"context"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/pkg/formatter"
)

type QueryUsecase interface {
	Options() entity.Options
	AskReport(ctx context.Context, q *entity.ReportQuery) (*entity.Answer, error)
	AskDocument(ctx context.Context, q *entity.DocumentQuery) (*entity.Answer, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
