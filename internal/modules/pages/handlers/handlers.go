// Package handlers provides HTTP handlers for the site pages and the
// read-only fixture API.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/pages"
	"github.com/metiseon/landing/internal/utils"
)

// SiteSource is the read side of the reloadable site
type SiteSource interface {
	Render(ctx context.Context, w io.Writer, path string) error
	NavStats() domain.NavStats
	DecisionTrace() domain.DecisionTrace
}

// Handler handles page and fixture requests
type Handler struct {
	site SiteSource
	log  zerolog.Logger
}

// NewHandler creates a new pages handler
func NewHandler(site SiteSource, log zerolog.Logger) *Handler {
	return &Handler{
		site: site,
		log:  log.With().Str("handler", "pages").Logger(),
	}
}

// HandlePage returns the handler for the page at path
func (h *Handler) HandlePage(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.site.Render(r.Context(), w, path); err != nil {
			if errors.Is(err, pages.ErrUnknownRoute) {
				http.NotFound(w, r)
				return
			}
			h.log.Error().Err(err).Str("path", path).Msg("Failed to render page")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}
	}
}

// HandleGetNavStats handles GET /api/nav-stats
func (h *Handler) HandleGetNavStats(w http.ResponseWriter, r *http.Request) {
	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(h.site.NavStats()), h.log)
}

// HandleGetDecisionTrace handles GET /api/decision-trace
func (h *Handler) HandleGetDecisionTrace(w http.ResponseWriter, r *http.Request) {
	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(h.site.DecisionTrace()), h.log)
}
