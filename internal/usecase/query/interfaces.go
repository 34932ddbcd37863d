package query

import (
	"context"

	"github.com/futig/rag-query-client/internal/entity"
)

type RagConnector interface {
	Query(ctx context.Context, req *entity.QARequest) (string, error)
	Upload(ctx context.Context, file *entity.FileData) (entity.UploadResult, error)
	Index(ctx context.Context, req *entity.IndexRequest) (entity.IndexAck, error)
}
