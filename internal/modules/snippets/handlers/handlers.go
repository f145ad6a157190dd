// Package handlers provides HTTP handlers for code snippets.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/modules/snippets"
	"github.com/metiseon/landing/internal/utils"
)

// SnippetSource yields the current snippet registry
type SnippetSource interface {
	Snippets() *snippets.Registry
}

// Handler handles snippet HTTP requests
type Handler struct {
	source SnippetSource
	log    zerolog.Logger
}

// NewHandler creates a new snippets handler
func NewHandler(source SnippetSource, log zerolog.Logger) *Handler {
	return &Handler{
		source: source,
		log:    log.With().Str("handler", "snippets").Logger(),
	}
}

// HandleList handles GET /api/snippets
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	all := h.source.Snippets().All()
	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(map[string]interface{}{
		"snippets": all,
		"count":    len(all),
	}), h.log)
}

// HandleGet handles GET /api/snippets/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snippet, err := h.source.Snippets().Get(id)
	if errors.Is(err, snippets.ErrUnknownSnippet) {
		http.Error(w, "Snippet not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to get snippet")
		http.Error(w, "Failed to get snippet", http.StatusInternalServerError)
		return
	}

	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(snippet), h.log)
}

// HandleRaw handles GET /api/snippets/{id}/raw, the plain text a copy action
// puts on the clipboard
func (h *Handler) HandleRaw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snippet, err := h.source.Snippets().Get(id)
	if err != nil {
		http.Error(w, "Snippet not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(snippet.Code))
}

