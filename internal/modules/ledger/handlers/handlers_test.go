package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/metiseon/landing/internal/database"
	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/ledger"
)

// setupRouter wires the handler to a seeded in-memory ledger
func setupRouter(t *testing.T) chi.Router {
	db, err := database.New(database.Config{Name: "ledger"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := ledger.NewRepository(db.Conn(), log)

	base := time.Date(2025, 6, 27, 15, 30, 0, 0, time.UTC)
	var trades []domain.LedgerTrade
	for i := 0; i < 12; i++ {
		ticker := "VTI"
		if i%2 == 1 {
			ticker = "GLD"
		}
		trades = append(trades, domain.LedgerTrade{
			TS:     base.AddDate(0, 0, -7*i),
			Ticker: ticker,
			Qty:    float64(10 * (i + 1)),
			Price:  100,
			FeeBp:  12,
		})
	}
	_, err = repo.Seed(context.Background(), trades)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api", NewHandler(repo, log).RegisterRoutes)
	return r
}

type tradesResponse struct {
	Data struct {
		Trades []domain.LedgerTrade `json:"trades"`
		Count  int                  `json:"count"`
		Limit  int                  `json:"limit"`
	} `json:"data"`
}

func getTrades(t *testing.T, router chi.Router, url string) (*httptest.ResponseRecorder, tradesResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp tradesResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHandleGetTrades_DefaultLimit(t *testing.T) {
	router := setupRouter(t)

	w, resp := getTrades(t, router, "/api/ledger/trades")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, ledger.DefaultLimit, resp.Data.Count)
	assert.Equal(t, ledger.DefaultLimit, resp.Data.Limit)
	assert.Equal(t, 10.0, resp.Data.Trades[0].Qty, "newest trade first")
}

func TestHandleGetTrades_LimitClamped(t *testing.T) {
	router := setupRouter(t)

	w, resp := getTrades(t, router, "/api/ledger/trades?limit=1000")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ledger.MaxLimit, resp.Data.Limit)
	assert.Equal(t, 12, resp.Data.Count)
}

func TestHandleGetTrades_InvalidLimit(t *testing.T) {
	router := setupRouter(t)

	w, _ := getTrades(t, router, "/api/ledger/trades?limit=lots")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetTrades_TickerFilter(t *testing.T) {
	router := setupRouter(t)

	w, resp := getTrades(t, router, "/api/ledger/trades?limit=100&ticker=GLD")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, resp.Data.Count)
	for _, tr := range resp.Data.Trades {
		assert.Equal(t, "GLD", tr.Ticker)
	}
}

func TestHandleGetTrades_Msgpack(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ledger/trades?limit=2", nil)
	req.Header.Set("Accept", "application/msgpack")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/msgpack", w.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, data["count"])
}

func TestHandleGetTradesSummary(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ledger/trades/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data ledger.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.Data.TotalTrades)
	assert.Equal(t, int64(12), resp.Data.BuyCount)
}

type failingReader struct{}

func (failingReader) LatestFor(context.Context, int, []string) ([]domain.LedgerTrade, error) {
	return nil, errors.New("disk gone")
}

func (failingReader) Summary(context.Context) (ledger.Summary, error) {
	return ledger.Summary{}, errors.New("disk gone")
}

func TestHandlers_StoreFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/api", NewHandler(failingReader{}, zerolog.New(nil).Level(zerolog.Disabled)).RegisterRoutes)

	for _, url := range []string{"/api/ledger/trades", "/api/ledger/trades/summary"} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code, url)
	}
}

func TestRegisterRoutes(t *testing.T) {
	h := NewHandler(failingReader{}, zerolog.New(nil).Level(zerolog.Disabled))
	assert.NotPanics(t, func() {
		h.RegisterRoutes(chi.NewRouter())
	})
}
