package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/content"
	"github.com/metiseon/landing/internal/modules/display"
	"github.com/metiseon/landing/internal/modules/fixtures"
	"github.com/metiseon/landing/internal/modules/snippets"
	"github.com/metiseon/landing/pkg/embedded"
)

type stubLedger struct {
	trades []domain.LedgerTrade
	err    error
	limit  int
}

func (s *stubLedger) Latest(_ context.Context, limit int) ([]domain.LedgerTrade, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.trades) {
		return s.trades[:limit], nil
	}
	return s.trades, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

// newTestComposer builds a composer over the embedded content and fixtures
func newTestComposer(t *testing.T, ledger LedgerReader) *Composer {
	t.Helper()
	site, err := content.Load(embedded.Assets())
	require.NoError(t, err)
	bundle, err := fixtures.NewLoader(embedded.Assets(), testLogger()).Load()
	require.NoError(t, err)
	registry, err := snippets.NewRegistry(site.Snippets)
	require.NoError(t, err)
	return NewComposer(site, bundle, registry, ledger, display.DefaultTheme(), testLogger())
}

func TestTraceViewOf(t *testing.T) {
	winner := "VTI"
	trace := domain.DecisionTrace{
		Date:               "2025-06-27",
		LastWinnerExcluded: &winner,
		Candidates:         []string{"IEFA", "GLD", "BND"},
		Chosen:             "GLD",
		Scores:             map[string]float64{"BND": 45, "GLD": 65, "IEFA": 55, "ZZZ": 1},
		Sigma:              map[string]float64{"BND": 0.061, "GLD": 0.138, "IEFA": 0.152},
		SigmaMedian:        0.138,
		FeeBp:              12,
		ImpactBp:           9,
		CapBp:              35,
		TradeAllowed:       true,
	}

	want := TraceView{
		Date:               "2025-06-27",
		LastWinnerExcluded: "VTI",
		Candidates:         "IEFA, GLD, BND",
		Chosen:             "GLD",
		Scores: []KeyValue{
			{Key: "IEFA", Value: "55"},
			{Key: "GLD", Value: "65"},
			{Key: "BND", Value: "45"},
			{Key: "ZZZ", Value: "1"},
		},
		Sigma: []KeyValue{
			{Key: "IEFA", Value: "15.20%"},
			{Key: "GLD", Value: "13.80%"},
			{Key: "BND", Value: "6.10%"},
		},
		SigmaMedian: "13.80%",
		Fee:         "12 bp",
		Impact:      "9 bp",
		Cap:         "35 bp",
		Allowed:     "yes",
	}

	if diff := cmp.Diff(want, TraceViewOf(trace)); diff != "" {
		t.Errorf("TraceViewOf mismatch (-want +got):\n%s", diff)
	}
}

func TestTraceViewOf_NoLastWinner(t *testing.T) {
	empty := ""
	for _, winner := range []*string{nil, &empty} {
		view := TraceViewOf(domain.DecisionTrace{LastWinnerExcluded: winner})
		assert.Equal(t, display.Placeholder, view.LastWinnerExcluded)
		assert.Equal(t, "no", view.Allowed)
	}
}

func TestLedgerRowViewOf(t *testing.T) {
	row := LedgerRowViewOf(domain.LedgerTrade{
		TS:     time.Date(2025, 5, 30, 15, 30, 0, 0, time.UTC),
		Ticker: "BTC-USD",
		Qty:    -0.45,
		Price:  62350,
		FeeBp:  12,
	})

	want := LedgerRowView{TS: "2025-05-30T15:30Z", Ticker: "BTC-USD", Qty: "-0.45", Price: "$62,350.00", Fee: "12 bp"}
	assert.Equal(t, want, row)
}

func TestLedgerRowViewOf_ConvertsToUTC(t *testing.T) {
	athens := time.FixedZone("EEST", 3*60*60)
	row := LedgerRowViewOf(domain.LedgerTrade{TS: time.Date(2025, 6, 27, 18, 30, 0, 0, athens), Ticker: "VTI", Qty: 120, Price: 224.34, FeeBp: 12})

	assert.Equal(t, "2025-06-27T15:30Z", row.TS)
	assert.Equal(t, "+120", row.Qty)
}

func TestComposer_Nav(t *testing.T) {
	c := newTestComposer(t, &stubLedger{})

	items := c.Nav(PathDemo)
	require.NotEmpty(t, items)

	active := 0
	for _, item := range items {
		if item.Active {
			active++
			assert.Equal(t, PathDemo, item.Path)
		}
	}
	assert.Equal(t, 1, active)

	for _, item := range c.Nav(PathDisclaimer) {
		assert.False(t, item.Active, "disclaimer is not in the header")
	}
}

func TestComposer_DemoKPIs(t *testing.T) {
	c := newTestComposer(t, &stubLedger{})

	view := c.Demo(context.Background())
	require.Len(t, view.KPIs, 4)

	assert.Equal(t, "+4.30%", view.KPIs[0].Value)
	assert.Equal(t, "text-auric", view.KPIs[0].Class)
	assert.Equal(t, "19.20%", view.KPIs[1].Value)
	assert.Equal(t, "-13.40%", view.KPIs[2].Value)
	assert.Equal(t, "text-signal", view.KPIs[2].Class)
	assert.Equal(t, "29 bp", view.KPIs[3].Value)

	assert.Equal(t, "GLD", view.Trace.Chosen)
	assert.Equal(t, "/charts/nav_meo.svg", view.NavChart.ImageSrc)
	assert.Equal(t, SnippetCLI, view.CLI.ID)
	assert.Contains(t, view.CLI.Code, "run.py backtest")
	assert.Equal(t, "sql", view.LedgerSQL.Language)
}

func TestComposer_DemoMissingStats(t *testing.T) {
	c := newTestComposer(t, &stubLedger{})
	c.fixtures.NavStats = domain.NavStats{}

	view := c.Demo(context.Background())
	for _, kpi := range view.KPIs {
		assert.Equal(t, display.Placeholder, kpi.Value, kpi.Label)
	}
}

func TestComposer_DemoLedger(t *testing.T) {
	base := time.Date(2025, 6, 27, 15, 30, 0, 0, time.UTC)
	var trades []domain.LedgerTrade
	for i := 0; i < 8; i++ {
		trades = append(trades, domain.LedgerTrade{TS: base.AddDate(0, 0, -7*i), Ticker: "VTI", Qty: 1, Price: 1, FeeBp: 12})
	}
	ledger := &stubLedger{trades: trades}
	c := newTestComposer(t, ledger)

	view := c.Demo(context.Background())
	assert.Equal(t, 5, ledger.limit)
	assert.Len(t, view.Ledger, 5)
	assert.False(t, view.LedgerError)
	assert.Equal(t, "2025-06-27T15:30Z", view.Ledger[0].TS)
}

func TestComposer_DemoLedgerFailure(t *testing.T) {
	c := newTestComposer(t, &stubLedger{err: errors.New("database is locked")})

	view := c.Demo(context.Background())
	assert.True(t, view.LedgerError)
	assert.Empty(t, view.Ledger)
	assert.Equal(t, "GLD", view.Trace.Chosen, "the rest of the page still composes")
}

func TestComposer_Reports(t *testing.T) {
	c := newTestComposer(t, &stubLedger{})

	view := c.Reports()
	require.Len(t, view.KPIs, 4)
	assert.Equal(t, "text-auric", view.KPIs[0].Class)
	assert.Equal(t, "text-signal", view.KPIs[2].Class)

	require.Len(t, view.Equities, 6)
	for _, eq := range view.Equities {
		assert.NotEmpty(t, eq.SparkPath, eq.Ticker)
		assert.Equal(t, "M 0", eq.SparkPath[:3], eq.Ticker)
	}
	assert.Empty(t, view.NavChart.ImageSrc)
	assert.NotEmpty(t, view.NavChart.LinePath)
}

func TestComposer_HowItWorksNumbering(t *testing.T) {
	c := newTestComposer(t, &stubLedger{})

	view := c.HowItWorks()
	require.Len(t, view.Steps, 6)
	for i, step := range view.Steps {
		assert.Equal(t, i+1, step.Number)
		assert.NotEmpty(t, step.Body, step.Title)
	}
	assert.NotEmpty(t, view.Steps[5].Formula)
	assert.NotEmpty(t, view.Steps[5].Fallback)
}

func TestComposer_Disclaimer(t *testing.T) {
	c := newTestComposer(t, &stubLedger{})

	view := c.Disclaimer()
	require.Len(t, view.Paragraphs, 8)
	assert.Equal(t, "Prototype software.", view.Paragraphs[0].Lead)
	assert.Contains(t, string(view.Paragraphs[4].Body), `href="https://metior.akalabs.dev/"`)
	assert.Equal(t, "2025-01-01", view.Updated)
}

func TestTextOrHTML(t *testing.T) {
	assert.Equal(t, "a &lt; b", string(textOrHTML("a < b", "")))
	assert.Equal(t, "<b>x</b>", string(textOrHTML("ignored", "<b>x</b>")))
}
