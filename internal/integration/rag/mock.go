package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers without a backend; used when ENABLE_MOCKS is set
type MockConnector struct{}

func NewMockConnector() *MockConnector {
	return &MockConnector{}
}

func (m *MockConnector) Query(ctx context.Context, req *entity.QARequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] querying RAG backend",
		zap.String("model", req.Model),
		zap.String("mode", string(req.Mode)),
	)

	scope := make([]string, 0, len(req.SearchParams))
	for _, f := range req.SearchParams {
		switch v := f.(type) {
		case entity.ReportPeriod:
			scope = append(scope, v.String())
		case entity.SourceRef:
			scope = append(scope, v.URL)
		}
	}

	return fmt.Sprintf(`## Mock answer

**Prompt:** %s

| Setting | Value |
|---|---|
| Model | %s |
| Database | %s |
| Chunking | %s |
| Scope | %s |
`, req.Prompt, req.Model, req.DB, req.ChunkingStrategy, strings.Join(scope, ", ")), nil
}

func (m *MockConnector) Upload(ctx context.Context, file *entity.FileData) (entity.UploadResult, error) {
	ctxzap.Info(ctx, "[MOCK] uploading document", zap.String("filename", file.Filename))

	return entity.UploadResult{
		"mock://docling/" + file.Filename + ".md",
		"mock://mistral/" + file.Filename + ".md",
	}, nil
}

func (m *MockConnector) Index(ctx context.Context, req *entity.IndexRequest) (entity.IndexAck, error) {
	ctxzap.Info(ctx, "[MOCK] indexing document", zap.String("url", req.URL))
	return entity.IndexAck(`{"status":"indexed"}`), nil
}
