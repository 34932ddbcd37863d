package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	queryapi "github.com/futig/rag-query-client/internal/api/query"
	"github.com/futig/rag-query-client/internal/api/ui"
	"github.com/futig/rag-query-client/internal/config"
	"github.com/futig/rag-query-client/internal/integration/rag"
	"github.com/futig/rag-query-client/internal/pkg/formatter"
	"github.com/futig/rag-query-client/internal/pkg/validator"
	"github.com/futig/rag-query-client/internal/usecase/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		CORSOrigins:   []string{"*"},
		FileUploadCfg: config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 2 << 20},
	}
	logger := zap.NewNop()

	uc := query.NewUsecase(validator.NewValidator(cfg.FileUploadCfg), rag.NewMockConnector())
	uiHandler, err := ui.NewHandler(uc, cfg.FileUploadCfg)
	require.NoError(t, err)

	return SetupRouter(cfg, queryapi.NewHandler(uc, formatter.NewFactory(), cfg.FileUploadCfg), uiHandler, logger)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReportQueryEndToEndWithMockBackend(t *testing.T) {
	body := `{"model":"openai/gpt-4o","prompt":"revenue","chunking_strategy":"sentence-5","db":"pinecone","year_quarters":["2025_Q1"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/report-query", strings.NewReader(body))

	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "markdown")
}

func TestUIPagesServed(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/document", "/docs/swagger.yaml"} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
