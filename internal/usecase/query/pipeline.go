package query

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// documentRun carries values from one stage to the next
type documentRun struct {
	query     *entity.DocumentQuery
	artifacts entity.UploadResult
	sourceURL string
	ack       entity.IndexAck
	answer    string
}

type stage struct {
	name entity.Stage
	run  func(ctx context.Context, r *documentRun) error
}

func (uc *QueryUsecase) documentStages() []stage {
	return []stage{
		{name: entity.StageUpload, run: uc.uploadStage},
		{name: entity.StageSelect, run: uc.selectStage},
		{name: entity.StageIndex, run: uc.indexStage},
		{name: entity.StageQuery, run: uc.queryStage},
	}
}

// runPipeline executes stages in order and stops at the first failure
func (uc *QueryUsecase) runPipeline(ctx context.Context, r *documentRun, stages []stage) error {
	for _, s := range stages {
		stageCtx := logger.AddFields(ctx, zap.String("stage", string(s.name)))
		start := time.Now()

		if err := s.run(stageCtx, r); err != nil {
			ctxzap.Error(stageCtx, "document pipeline stage failed",
				zap.Error(err),
				zap.Duration("duration", time.Since(start)),
			)
			return &entity.StageError{Stage: s.name, Err: err}
		}

		ctxzap.Debug(stageCtx, "document pipeline stage done", zap.Duration("duration", time.Since(start)))
	}
	return nil
}

func (uc *QueryUsecase) uploadStage(ctx context.Context, r *documentRun) error {
	artifacts, err := uc.UploadDocument(ctx, r.query.File)
	if err != nil {
		return err
	}
	r.artifacts = artifacts
	return nil
}

func (uc *QueryUsecase) selectStage(ctx context.Context, r *documentRun) error {
	url := r.artifacts.Select(r.query.Tool)
	if url == "" {
		return fmt.Errorf("%w: no artifact for tool %q", entity.ErrContent, r.query.Tool)
	}
	r.sourceURL = url

	ctxzap.Info(ctx, "document artifact selected",
		zap.String("tool", string(r.query.Tool)),
		zap.String("url", url),
	)
	return nil
}

func (uc *QueryUsecase) indexStage(ctx context.Context, r *documentRun) error {
	ack, err := uc.IndexDocument(ctx, r.sourceURL, r.query.DB, r.query.ChunkingStrategy)
	if err != nil {
		return err
	}
	r.ack = ack
	return nil
}

func (uc *QueryUsecase) queryStage(ctx context.Context, r *documentRun) error {
	sourceURL := r.sourceURL

	answer, err := uc.SubmitQuery(ctx, &entity.QueryInput{
		SourceURL:        &sourceURL,
		ModelAlias:       r.query.ModelAlias,
		Prompt:           r.query.Prompt,
		ChunkingStrategy: r.query.ChunkingStrategy,
		DB:               r.query.DB,
		Scope:            []entity.ScopeFilter{entity.SourceRef{URL: sourceURL}},
		Mode:             entity.ModeCustomDocument,
	})
	if err != nil {
		return err
	}
	r.answer = answer
	return nil
}
