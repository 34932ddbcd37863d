package ui

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the server-rendered pages
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.ReportPage)
	r.Post("/report", h.SubmitReport)
	r.Get("/document", h.DocumentPage)
	r.Post("/document", h.SubmitDocument)
}
