package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all snippet routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/snippets", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Get("/{id}/raw", h.HandleRaw)
	})
}
