package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metiseon/landing/internal/database"
	"github.com/metiseon/landing/internal/domain"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func demoTrades() []domain.LedgerTrade {
	return []domain.LedgerTrade{
		{TS: ts("2025-06-27T15:30:00Z"), Ticker: "VTI", Qty: 120, Price: 224.34, FeeBp: 12},
		{TS: ts("2025-06-20T15:30:00Z"), Ticker: "IEFA", Qty: -110, Price: 70.12, FeeBp: 12},
		{TS: ts("2025-06-13T15:30:00Z"), Ticker: "GLD", Qty: 40, Price: 188.10, FeeBp: 12},
		{TS: ts("2025-06-06T15:30:00Z"), Ticker: "BND", Qty: 200, Price: 75.44, FeeBp: 12},
		{TS: ts("2025-05-30T15:30:00Z"), Ticker: "BTC-USD", Qty: -0.45, Price: 62350.00, FeeBp: 12},
		{TS: ts("2025-05-23T15:30:00Z"), Ticker: "VTI", Qty: -60, Price: 219.80, FeeBp: 12},
	}
}

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(database.Config{Name: "ledger"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	repo := NewRepository(db.Conn(), zerolog.New(nil).Level(zerolog.Disabled))

	// Seed out of order; queries must sort
	trades := demoTrades()
	trades[0], trades[3] = trades[3], trades[0]
	added, err := repo.Seed(context.Background(), trades)
	require.NoError(t, err)
	require.Equal(t, 6, added)
	return repo
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 1, ClampLimit(1))
	assert.Equal(t, 42, ClampLimit(42))
	assert.Equal(t, MaxLimit, ClampLimit(1000))
}

func TestLatest_NewestFirst(t *testing.T) {
	repo := setupRepo(t)

	trades, err := repo.Latest(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, trades, 5)

	var tickers []string
	for _, tr := range trades {
		tickers = append(tickers, tr.Ticker)
	}
	assert.Equal(t, []string{"VTI", "IEFA", "GLD", "BND", "BTC-USD"}, tickers)

	for i := 1; i < len(trades); i++ {
		assert.True(t, trades[i-1].TS.After(trades[i].TS))
	}
	assert.Equal(t, -0.45, trades[4].Qty)
	assert.Equal(t, 62350.00, trades[4].Price)
}

func TestLatest_DefaultLimit(t *testing.T) {
	repo := setupRepo(t)

	trades, err := repo.Latest(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, trades, DefaultLimit)
}

func TestLatestFor_Tickers(t *testing.T) {
	repo := setupRepo(t)

	trades, err := repo.LatestFor(context.Background(), 10, []string{"VTI"})
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, 120.0, trades[0].Qty)
	assert.Equal(t, -60.0, trades[1].Qty)
}

func TestSeed_Idempotent(t *testing.T) {
	repo := setupRepo(t)

	added, err := repo.Seed(context.Background(), demoTrades())
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestSummary(t *testing.T) {
	repo := setupRepo(t)

	s, err := repo.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6), s.TotalTrades)
	assert.Equal(t, int64(3), s.BuyCount)
	assert.Equal(t, int64(3), s.SellCount)
	assert.InDelta(t, 12.0, s.AvgFeeBp, 1e-9)

	want := 120*224.34 + 110*70.12 + 40*188.10 + 200*75.44 + 0.45*62350.00 + 60*219.80
	assert.InDelta(t, want, s.GrossValue, 1e-6)
}
