// Package handlers provides HTTP handlers for chart data.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/modules/charts"
	"github.com/metiseon/landing/internal/utils"
)

// ChartSource renders charts and serves the NAV series
type ChartSource interface {
	Render(name string) ([]byte, error)
	NavSeries(dateRange string) []charts.ChartDataPoint
}

// Handler provides HTTP handlers for chart endpoints
type Handler struct {
	service ChartSource
	log     zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(service ChartSource, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// HandleGetChart returns the handler serving the SVG chart at name
func (h *Handler) HandleGetChart(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svg, err := h.service.Render(name)
		if err != nil {
			if errors.Is(err, charts.ErrUnknownChart) {
				http.NotFound(w, r)
				return
			}
			h.log.Error().Err(err).Str("chart", name).Msg("Failed to render chart")
			http.Error(w, "Failed to render chart", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=300")
		if _, err := w.Write(svg); err != nil {
			h.log.Error().Err(err).Str("chart", name).Msg("Failed to write chart")
		}
	}
}

// HandleGetNavSeries handles GET /api/charts/nav?range=1M|3M|6M|1Y|YTD|ALL
func (h *Handler) HandleGetNavSeries(w http.ResponseWriter, r *http.Request) {
	dateRange := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("range")))
	if dateRange == "" {
		dateRange = "ALL"
	}
	if !charts.ValidRange(dateRange) {
		http.Error(w, "Invalid range: expected one of "+strings.Join(charts.Ranges, ", "), http.StatusBadRequest)
		return
	}

	points := h.service.NavSeries(dateRange)
	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(map[string]interface{}{
		"range":  dateRange,
		"points": points,
	}), h.log)
}
