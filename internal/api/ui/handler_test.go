package ui

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/entity"
	"github.com/futig/rag-query-client/internal/pkg/errkind"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	report   *entity.ReportQuery
	document *entity.DocumentQuery

	answer *entity.Answer
	err    error
}

func (f *fakeUsecase) Options() entity.Options { return entity.CurrentOptions() }

func (f *fakeUsecase) AskReport(_ context.Context, q *entity.ReportQuery) (*entity.Answer, error) {
	f.report = q
	return f.answer, f.err
}

func (f *fakeUsecase) AskDocument(_ context.Context, q *entity.DocumentQuery) (*entity.Answer, error) {
	f.document = q
	return f.answer, f.err
}

func newTestRouter(t *testing.T, uc *fakeUsecase) http.Handler {
	t.Helper()
	h, err := NewHandler(uc, config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 2 << 20})
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func postReport(t *testing.T, uc *fakeUsecase, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newTestRouter(t, uc).ServeHTTP(rec, req)
	return rec
}

func TestReportPageDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, &fakeUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, reportTitle)
	assert.Contains(t, body, `<option value="2025_Q1" selected>`)
	assert.Contains(t, body, `<option value="openai/gpt-4o-mini"`)
	assert.NotContains(t, body, `class="error"`)
}

func TestDocumentPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, &fakeUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/document", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, documentTitle)
	assert.Contains(t, body, `enctype="multipart/form-data"`)
	assert.Contains(t, body, `<option value="mistral" selected>`)
}

func TestSubmitReportRendersMarkdown(t *testing.T) {
	uc := &fakeUsecase{answer: &entity.Answer{Markdown: "| Metric | Value |\n|---|---|\n| Revenue | 26B |\n\n<script>alert(1)</script>"}}

	rec := postReport(t, uc, url.Values{
		"model":             {"openai/gpt-4"},
		"prompt":            {"revenue"},
		"chunking_strategy": {"sentence-5"},
		"db":                {"pinecone"},
		"year_quarters":     {"2024_Q4"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "<td>Revenue</td>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, `action="/api/export?format=pdf"`)
	assert.Contains(t, body, `<option value="openai/gpt-4" selected>`)

	require.NotNil(t, uc.report)
	assert.Equal(t, []string{"2024_Q4"}, uc.report.YearQuarters)
}

func TestSubmitReportShowsErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{entity.ErrEmptyPrompt, http.StatusBadRequest, errkind.MsgEmptyPrompt},
		{fmt.Errorf("%w: markdown", entity.ErrContent), http.StatusBadGateway, errkind.MsgReportFailed},
	}

	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			rec := postReport(t, &fakeUsecase{err: tc.err}, url.Values{"prompt": {""}})
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.msg)
			assert.NotContains(t, rec.Body.String(), "<h2>Response</h2>")
		})
	}
}

func TestSubmitDocument(t *testing.T) {
	uc := &fakeUsecase{answer: &entity.Answer{Markdown: "# Risks", SourceURL: "gs://bucket/doc.md"}}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("tool", "docling"))
	require.NoError(t, w.WriteField("prompt", "risks?"))
	part, err := w.CreateFormFile("file", "doc.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/document", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestRouter(t, uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Risks</h1>")
	assert.Contains(t, rec.Body.String(), "gs://bucket/doc.md")
	assert.Contains(t, rec.Body.String(), `<option value="docling" selected>`)
	require.NotNil(t, uc.document)
	assert.Equal(t, "doc.pdf", uc.document.File.Filename)
}

func TestSubmitDocumentStageError(t *testing.T) {
	uc := &fakeUsecase{err: &entity.StageError{Stage: entity.StageUpload, Err: fmt.Errorf("%w: %w", entity.ErrUpload, entity.ErrContent)}}

	req := httptest.NewRequest(http.MethodPost, "/document", nil)
	rec := httptest.NewRecorder()
	newTestRouter(t, uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), errkind.MsgDocumentFailed)
}
