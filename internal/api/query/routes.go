package query

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers JSON API routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/options", h.GetOptions)
		r.Post("/report-query", h.ReportQuery)
		r.Post("/document-query", h.DocumentQuery)
		r.Post("/export", h.Export)
	})
}
