package api

import (
	"net/http"

	"github.com/futig/rag-query-client/internal/api/docs"
	"github.com/futig/rag-query-client/internal/api/middleware"
	queryapi "github.com/futig/rag-query-client/internal/api/query"
	"github.com/futig/rag-query-client/internal/api/ui"
	"github.com/futig/rag-query-client/internal/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(cfg *config.Config, queryHandler *queryapi.Handler, uiHandler *ui.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.HandlerTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.HandlerTimeout))
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	docs.RegisterRoutes(r)

	ui.RegisterRoutes(r, uiHandler)
	queryapi.RegisterRoutes(r, queryHandler)

	return r
}
