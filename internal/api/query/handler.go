package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/futig/rag-query-client/internal/api/form"
	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/pkg/errkind"
	"github.com/futig/rag-query-client/internal/pkg/logger"
	"github.com/futig/rag-query-client/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase    QueryUsecase
	formatters FormatterFactory
	cfg        config.FileUploadConfig
}

func NewHandler(usecase QueryUsecase, formatters FormatterFactory, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase:    usecase,
		formatters: formatters,
		cfg:        cfg,
	}
}

// GetOptions handles GET /api/options
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.usecase.Options())
}

// ReportQuery handles POST /api/report-query
func (h *Handler) ReportQuery(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ReportQuery")

	var req entity.ReportQuery
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "report query",
		zap.String("model", req.ModelAlias),
		zap.String("db", string(req.DB)),
		zap.Strings("year_quarters", req.YearQuarters),
	)

	answer, err := h.usecase.AskReport(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, answer)
}

// DocumentQuery handles POST /api/document-query
func (h *Handler) DocumentQuery(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DocumentQuery")

	req, err := form.ParseDocumentForm(w, r, h.cfg.MaxUploadSize)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	fields := []zap.Field{
		zap.String("model", req.ModelAlias),
		zap.String("tool", string(req.Tool)),
		zap.String("db", string(req.DB)),
	}
	if req.File != nil {
		fields = append(fields, zap.String("filename", req.File.Filename), zap.Int("size", len(req.File.Content)))
	}
	ctxzap.Info(ctx, "document query", fields...)

	answer, err := h.usecase.AskDocument(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, answer)
}

// Export handles POST /api/export?format=markdown|docx|pdf
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Export")

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	f, err := h.formatters.Create(format)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported format", err)
		return
	}

	req, err := decodeExportRequest(r)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		h.respondError(ctx, w, http.StatusBadRequest, "markdown is required", nil)
		return
	}

	content, err := f.Format(req.Title, req.Markdown)
	if err != nil {
		h.respondError(ctx, w, http.StatusInternalServerError, "failed to render document", err)
		return
	}

	ctxzap.Info(ctx, "answer exported", zap.String("format", string(format)), zap.Int("size", len(content)))

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "response"+f.FileExtension()))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// decodeExportRequest accepts JSON from API clients and plain forms from the web UI
func decodeExportRequest(r *http.Request) (*entity.ExportRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &entity.ExportRequest{
			Title:    r.PostFormValue("title"),
			Markdown: r.PostFormValue("markdown"),
		}, nil
	}

	var req entity.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Error(ctx, message)
	}
	response.Error(w, status, http.StatusText(status), message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	c := errkind.Classify(err)

	fields := []zap.Field{zap.Error(err), zap.String("kind", string(c.Kind))}
	if c.Stage != "" {
		fields = append(fields, zap.String("stage", string(c.Stage)))
	}
	if c.Kind == errkind.KindValidation {
		ctxzap.Warn(ctx, "request rejected", fields...)
	} else {
		ctxzap.Error(ctx, "query failed", fields...)
	}

	response.Error(w, c.Status, string(c.Kind), c.Message)
}
