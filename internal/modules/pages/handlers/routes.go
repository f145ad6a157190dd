package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/metiseon/landing/internal/modules/pages"
)

// RegisterRoutes registers every page route
func (h *Handler) RegisterRoutes(r chi.Router) {
	for _, route := range pages.Routes() {
		r.Get(route.Path, h.HandlePage(route.Path))
	}
}

// RegisterAPIRoutes registers the fixture endpoints
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/nav-stats", h.HandleGetNavStats)
	r.Get("/decision-trace", h.HandleGetDecisionTrace)
}
