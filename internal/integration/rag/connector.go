package rag

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/integration/common"
	pkghttp "github.com/futig/rag-query-client/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const uploadFormField = "file"

type Connector struct {
	config    config.RAGConnectorConfig
	connector *pkghttp.Connector
}

func NewConnector(
	cfg config.RAGConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
	}
}

// Query asks the backend a question
// POST {qa_endpoint} with a JSON QARequest, expects {"markdown": "..."}
func (c *Connector) Query(ctx context.Context, req *entity.QARequest) (string, error) {
	ctxzap.Info(ctx, "querying RAG backend",
		zap.String("model", req.Model),
		zap.String("mode", string(req.Mode)),
		zap.String("db", string(req.DB)),
		zap.Int("scope_size", len(req.SearchParams)),
	)

	var resp entity.QAResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.QAEndpoint, req, &resp); err != nil {
		ctxzap.Error(ctx, "RAG query failed", zap.Error(err))
		return "", classify(err)
	}

	if resp.Markdown == nil {
		ctxzap.Warn(ctx, "RAG query response has no markdown field")
		return "", fmt.Errorf("%w: markdown", entity.ErrContent)
	}

	ctxzap.Info(ctx, "RAG query answered", zap.Int("answer_length", len(*resp.Markdown)))
	return *resp.Markdown, nil
}

// Upload sends a PDF to the backend and returns the two derived document URLs
// POST {upload_endpoint} with multipart/form-data, expects {"url": [docling, mistral]}
func (c *Connector) Upload(ctx context.Context, file *entity.FileData) (entity.UploadResult, error) {
	ctxzap.Info(ctx, "uploading document to RAG backend",
		zap.String("filename", file.Filename),
		zap.Int("size", len(file.Content)),
	)

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile(uploadFormField, file.Filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp entity.UploadResponse
	if err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.UploadEndpoint, prepareBody, &resp); err != nil {
		ctxzap.Error(ctx, "document upload failed", zap.Error(err))
		return entity.UploadResult{}, fmt.Errorf("%w: %w", entity.ErrUpload, classify(err))
	}

	if len(resp.URL) != 2 || resp.URL[0] == "" || resp.URL[1] == "" {
		ctxzap.Warn(ctx, "upload response has malformed url pair", zap.Strings("url", resp.URL))
		return entity.UploadResult{}, fmt.Errorf("%w: %w: url pair, got %d entries", entity.ErrUpload, entity.ErrContent, len(resp.URL))
	}

	result := entity.UploadResult{resp.URL[0], resp.URL[1]}
	ctxzap.Info(ctx, "document uploaded", zap.Strings("urls", resp.URL))

	return result, nil
}

// Index asks the backend to chunk and store a document
// POST {index_endpoint} with {url, chunking_strategy, db}; the reply body is returned untouched
func (c *Connector) Index(ctx context.Context, req *entity.IndexRequest) (entity.IndexAck, error) {
	ctxzap.Info(ctx, "indexing document in RAG backend",
		zap.String("url", req.URL),
		zap.String("db", string(req.DB)),
		zap.String("chunking_strategy", string(req.ChunkingStrategy)),
	)

	var raw []byte
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.IndexEndpoint, req, &raw); err != nil {
		ctxzap.Error(ctx, "document indexing failed", zap.Error(err))
		return nil, classify(err)
	}

	ctxzap.Info(ctx, "document indexed", zap.Int("ack_size", len(raw)))
	return entity.IndexAck(raw), nil
}

// classify maps connector errors onto domain error kinds
func classify(err error) error {
	var (
		netErr    *pkghttp.NetworkError
		httpErr   *pkghttp.HTTPError
		decodeErr *pkghttp.DecodeError
	)

	switch {
	case errors.As(err, &netErr), errors.As(err, &httpErr):
		return fmt.Errorf("%w: %w", entity.ErrTransport, err)
	case errors.As(err, &decodeErr):
		return fmt.Errorf("%w: %w", entity.ErrContent, err)
	default:
		return err
	}
}
