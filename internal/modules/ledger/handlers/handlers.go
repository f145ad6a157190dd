// Package handlers provides HTTP handlers for ledger operations.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/ledger"
	"github.com/metiseon/landing/internal/utils"
)

// TradeReader is the read side of the ledger repository
type TradeReader interface {
	LatestFor(ctx context.Context, limit int, tickers []string) ([]domain.LedgerTrade, error)
	Summary(ctx context.Context) (ledger.Summary, error)
}

// Handler handles ledger HTTP requests
type Handler struct {
	trades TradeReader
	log    zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(trades TradeReader, log zerolog.Logger) *Handler {
	return &Handler{
		trades: trades,
		log:    log.With().Str("handler", "ledger").Logger(),
	}
}

// HandleGetTrades handles GET /api/ledger/trades?limit=N&ticker=A,B
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	limit := ledger.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = ledger.ClampLimit(parsed)
	}

	tickers := utils.ParseCSV(r.URL.Query().Get("ticker"))

	trades, err := h.trades.LatestFor(r.Context(), limit, tickers)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query trades")
		http.Error(w, "Failed to query trades", http.StatusInternalServerError)
		return
	}

	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(map[string]interface{}{
		"trades": trades,
		"count":  len(trades),
		"limit":  limit,
	}), h.log)
}

// HandleGetTradesSummary handles GET /api/ledger/trades/summary
func (h *Handler) HandleGetTradesSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.trades.Summary(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query trades summary")
		http.Error(w, "Failed to query trades summary", http.StatusInternalServerError)
		return
	}

	utils.WriteResponse(w, r, http.StatusOK, utils.Envelope(summary), h.log)
}
