package ui

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"

	"github.com/futig/rag-query-client/internal/api/form"
	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/pkg/errkind"
	"github.com/futig/rag-query-client/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageReport   = "report"
	pageDocument = "document"

	reportTitle   = "Financial Report Query"
	documentTitle = "Document Query"
)

type QueryUsecase interface {
	Options() entity.Options
	AskReport(ctx context.Context, q *entity.ReportQuery) (*entity.Answer, error)
	AskDocument(ctx context.Context, q *entity.DocumentQuery) (*entity.Answer, error)
}

// formState keeps the user's selections between submissions
type formState struct {
	ModelAlias       string
	ChunkingStrategy entity.ChunkingStrategy
	DB               entity.Database
	YearQuarters     []string
	Tool             entity.ExtractionTool
	Prompt           string
}

type pageData struct {
	Title      string
	Active     string
	Options    entity.Options
	Form       formState
	Formats    []entity.ResultFormat
	Answer     *entity.Answer
	AnswerHTML template.HTML
	Error      string
}

type Handler struct {
	usecase  QueryUsecase
	cfg      config.FileUploadConfig
	pages    map[string]*template.Template
	markdown goldmark.Markdown
}

func NewHandler(usecase QueryUsecase, cfg config.FileUploadConfig) (*Handler, error) {
	funcs := template.FuncMap{
		"contains": func(list []string, v string) bool { return slices.Contains(list, v) },
	}

	pages := make(map[string]*template.Template, 2)
	for _, name := range []string{pageReport, pageDocument} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Handler{
		usecase:  usecase,
		cfg:      cfg,
		pages:    pages,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// ReportPage handles GET /
func (h *Handler) ReportPage(w http.ResponseWriter, r *http.Request) {
	h.render(r.Context(), w, http.StatusOK, pageReport, h.newPage(pageReport))
}

// SubmitReport handles POST /report
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SubmitReport")
	page := h.newPage(pageReport)

	q, err := form.ParseReportForm(r)
	if err != nil {
		h.renderError(ctx, w, page, err)
		return
	}
	page.Form = formState{
		ModelAlias:       q.ModelAlias,
		ChunkingStrategy: q.ChunkingStrategy,
		DB:               q.DB,
		YearQuarters:     q.YearQuarters,
		Prompt:           q.Prompt,
	}

	answer, err := h.usecase.AskReport(ctx, q)
	if err != nil {
		h.renderError(ctx, w, page, err)
		return
	}

	h.renderAnswer(ctx, w, page, answer)
}

// DocumentPage handles GET /document
func (h *Handler) DocumentPage(w http.ResponseWriter, r *http.Request) {
	h.render(r.Context(), w, http.StatusOK, pageDocument, h.newPage(pageDocument))
}

// SubmitDocument handles POST /document
func (h *Handler) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SubmitDocument")
	page := h.newPage(pageDocument)

	q, err := form.ParseDocumentForm(w, r, h.cfg.MaxUploadSize)
	if err != nil {
		h.renderError(ctx, w, page, err)
		return
	}
	page.Form = formState{
		ModelAlias:       q.ModelAlias,
		ChunkingStrategy: q.ChunkingStrategy,
		DB:               q.DB,
		Tool:             q.Tool,
		Prompt:           q.Prompt,
	}

	answer, err := h.usecase.AskDocument(ctx, q)
	if err != nil {
		h.renderError(ctx, w, page, err)
		return
	}

	h.renderAnswer(ctx, w, page, answer)
}

func (h *Handler) newPage(name string) *pageData {
	opts := h.usecase.Options()

	page := &pageData{
		Active:  name,
		Options: opts,
		Formats: []entity.ResultFormat{entity.FormatMarkdown, entity.FormatDOCX, entity.FormatPDF},
		Form: formState{
			ModelAlias:       entity.DefaultModelAlias(),
			ChunkingStrategy: opts.ChunkingStrategies[0],
			DB:               opts.Databases[0],
			YearQuarters:     []string{opts.DefaultYearQuarter},
			Tool:             opts.Tools[0],
		},
	}

	switch name {
	case pageDocument:
		page.Title = documentTitle
	default:
		page.Title = reportTitle
	}

	return page
}

func (h *Handler) renderAnswer(ctx context.Context, w http.ResponseWriter, page *pageData, answer *entity.Answer) {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(answer.Markdown), &buf); err != nil {
		ctxzap.Error(ctx, "failed to render markdown", zap.Error(err))
		page.Error = errkind.MsgInternalFailure
		h.render(ctx, w, http.StatusInternalServerError, page.Active, page)
		return
	}

	page.Answer = answer
	// goldmark escapes raw HTML unless html.WithUnsafe is set
	page.AnswerHTML = template.HTML(buf.String())

	h.render(ctx, w, http.StatusOK, page.Active, page)
}

func (h *Handler) renderError(ctx context.Context, w http.ResponseWriter, page *pageData, err error) {
	c := errkind.Classify(err)
	if c.Kind == errkind.KindValidation {
		ctxzap.Warn(ctx, "form rejected", zap.Error(err))
	} else {
		ctxzap.Error(ctx, "query failed", zap.Error(err), zap.String("kind", string(c.Kind)))
	}

	page.Error = c.Message
	h.render(ctx, w, c.Status, page.Active, page)
}

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, status int, name string, page *pageData) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", page); err != nil {
		ctxzap.Error(ctx, "failed to execute template", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
