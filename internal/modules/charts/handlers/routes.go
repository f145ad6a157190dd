package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/metiseon/landing/internal/modules/charts"
)

// RegisterRoutes registers the SVG chart paths at the site root
func (h *Handler) RegisterRoutes(r chi.Router) {
	for _, name := range []string{charts.NavChart, charts.ScoreChart, charts.SigmaGateChart, charts.WeightsChart} {
		r.Get("/"+name, h.HandleGetChart(name))
	}
}

// RegisterAPIRoutes registers the chart data endpoints
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Route("/charts", func(r chi.Router) {
		r.Get("/nav", h.HandleGetNavSeries)
	})
}
