package query

import (
	"context"
	"fmt"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// QueryUsecase turns user selections into backend calls
type QueryUsecase struct {
	validator    *validator.Validator
	ragConnector RagConnector
}

// NewUsecase creates a new query use case
func NewUsecase(
	validator *validator.Validator,
	ragConnector RagConnector,
) *QueryUsecase {
	return &QueryUsecase{
		validator:    validator,
		ragConnector: ragConnector,
	}
}

// Options returns the selectable catalogs
func (uc *QueryUsecase) Options() entity.Options {
	return entity.CurrentOptions()
}

// SubmitQuery resolves the model alias, builds the /qa body and sends it.
// Nothing is sent when validation fails.
func (uc *QueryUsecase) SubmitQuery(ctx context.Context, in *entity.QueryInput) (string, error) {
	if err := uc.validator.ValidatePrompt(in.Prompt); err != nil {
		return "", err
	}

	modelID, err := entity.ResolveModel(in.ModelAlias)
	if err != nil {
		return "", err
	}

	if err := uc.validator.ValidateSettings(in.ModelAlias, in.ChunkingStrategy, in.DB); err != nil {
		return "", err
	}

	if !in.Mode.IsValid() {
		return "", fmt.Errorf("%w: mode %q", entity.ErrValidation, in.Mode)
	}

	req := &entity.QARequest{
		URL:              in.SourceURL,
		Model:            modelID,
		Mode:             in.Mode,
		Prompt:           in.Prompt,
		ChunkingStrategy: in.ChunkingStrategy,
		DB:               in.DB,
		SearchParams:     in.Scope,
	}
	if req.SearchParams == nil {
		req.SearchParams = []entity.ScopeFilter{}
	}

	return uc.ragConnector.Query(ctx, req)
}

// UploadDocument sends a file and returns both extraction artifacts
func (uc *QueryUsecase) UploadDocument(ctx context.Context, file *entity.FileData) (entity.UploadResult, error) {
	if file == nil || len(file.Content) == 0 {
		return entity.UploadResult{}, entity.ErrMissingFile
	}

	upload := &entity.FileData{
		Filename: validator.SanitizeFilename(file.Filename),
		Content:  file.Content,
	}

	return uc.ragConnector.Upload(ctx, upload)
}

// IndexDocument asks the backend to index url into db using the given chunking
func (uc *QueryUsecase) IndexDocument(
	ctx context.Context,
	url string,
	db entity.Database,
	chunking entity.ChunkingStrategy,
) (entity.IndexAck, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: document url is empty", entity.ErrValidation)
	}

	return uc.ragConnector.Index(ctx, &entity.IndexRequest{
		URL:              url,
		ChunkingStrategy: chunking,
		DB:               db,
	})
}

// AskReport queries the curated report corpus over the selected year-quarters
func (uc *QueryUsecase) AskReport(ctx context.Context, q *entity.ReportQuery) (*entity.Answer, error) {
	if err := uc.validator.ValidateReportQuery(q); err != nil {
		ctxzap.Warn(ctx, "report query rejected", zap.Error(err))
		return nil, err
	}

	scope := make([]entity.ScopeFilter, 0, len(q.YearQuarters))
	for _, yq := range q.YearQuarters {
		period, err := entity.ParseYearQuarter(yq)
		if err != nil {
			return nil, err
		}
		scope = append(scope, period)
	}

	ctxzap.Info(ctx, "submitting report query",
		zap.String("model", q.ModelAlias),
		zap.Strings("year_quarters", q.YearQuarters),
	)

	markdown, err := uc.SubmitQuery(ctx, &entity.QueryInput{
		SourceURL:        nil,
		ModelAlias:       q.ModelAlias,
		Prompt:           q.Prompt,
		ChunkingStrategy: q.ChunkingStrategy,
		DB:               q.DB,
		Scope:            scope,
		Mode:             entity.ModeStructuredReport,
	})
	if err != nil {
		return nil, err
	}

	return &entity.Answer{Markdown: markdown}, nil
}

// AskDocument runs upload → select → index → query for one uploaded file
func (uc *QueryUsecase) AskDocument(ctx context.Context, q *entity.DocumentQuery) (*entity.Answer, error) {
	if err := uc.validator.ValidateDocumentQuery(q); err != nil {
		ctxzap.Warn(ctx, "document query rejected", zap.Error(err))
		return nil, err
	}

	run := &documentRun{query: q}
	if err := uc.runPipeline(ctx, run, uc.documentStages()); err != nil {
		return nil, err
	}

	return &entity.Answer{Markdown: run.answer, SourceURL: run.sourceURL}, nil
}
