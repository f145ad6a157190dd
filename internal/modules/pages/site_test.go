package pages

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/charts"
	"github.com/metiseon/landing/internal/modules/display"
	"github.com/metiseon/landing/pkg/embedded"
)

func newTestSite(t *testing.T, ledger LedgerReader) *Site {
	t.Helper()
	assets, err := LoadAssets(embedded.Assets(), display.DefaultTheme(), testLogger())
	require.NoError(t, err)
	chartSvc := charts.NewService(assets.ChartData(), testLogger())
	return NewSite(assets, ledger, chartSvc, display.DefaultTheme(), Options{CopyResetMs: 2000}, testLogger())
}

func renderPage(t *testing.T, s *Site, path string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, s.Render(context.Background(), &buf, path))
	return buf.String()
}

func TestSite_RendersEveryRoute(t *testing.T) {
	s := newTestSite(t, &stubLedger{})

	for _, route := range Routes() {
		t.Run(route.Template, func(t *testing.T) {
			html := renderPage(t, s, route.Path)
			assert.Contains(t, html, "<!DOCTYPE html>")
			assert.Contains(t, html, "ΣM")
			assert.Contains(t, html, "Powered by Metior (MEΩ)")
			assert.Contains(t, html, `data-copy-reset-ms="2000"`)
			assert.NotContains(t, html, "livereload.js")
		})
	}
}

func TestSite_ActiveNav(t *testing.T) {
	s := newTestSite(t, &stubLedger{})

	html := renderPage(t, s, PathReports)
	assert.Contains(t, html, `<a href="/reports" class="nav-link active" aria-current="page">Reports</a>`)
	assert.Equal(t, 1, strings.Count(html, "aria-current"))
}

func TestSite_DemoPage(t *testing.T) {
	trades := []domain.LedgerTrade{
		{TS: time.Date(2025, 6, 27, 15, 30, 0, 0, time.UTC), Ticker: "VTI", Qty: 120, Price: 224.34, FeeBp: 12},
	}
	s := newTestSite(t, &stubLedger{trades: trades})

	html := renderPage(t, s, PathDemo)
	assert.Contains(t, html, "&#43;4.30%")
	assert.Contains(t, html, "-13.40%")
	assert.Contains(t, html, "29 bp")
	assert.Contains(t, html, "<td>2025-06-27T15:30Z</td><td>VTI</td><td>&#43;120</td><td>$224.34</td><td>12 bp</td>")
	assert.Contains(t, html, `src="/logic/sigma_gate.svg"`)
	assert.Contains(t, html, `data-copy-target="snippet-cli"`)
	assert.Contains(t, html, "ORDER BY ts DESC")
}

func TestSite_EscapesPlainContent(t *testing.T) {
	s := newTestSite(t, &stubLedger{})

	html := renderPage(t, s, PathDocs)
	assert.Contains(t, html, "mcap &gt;= 1%")
}

func TestSite_LiveReloadScript(t *testing.T) {
	assets, err := LoadAssets(embedded.Assets(), display.DefaultTheme(), testLogger())
	require.NoError(t, err)
	s := NewSite(assets, &stubLedger{}, nil, display.DefaultTheme(), Options{CopyResetMs: 500, LiveReload: true}, testLogger())

	html := renderPage(t, s, PathHome)
	assert.Contains(t, html, "/static/livereload.js")
	assert.Contains(t, html, `data-copy-reset-ms="500"`)
}

func TestSite_UnknownRoute(t *testing.T) {
	s := newTestSite(t, &stubLedger{})

	err := s.Render(context.Background(), &bytes.Buffer{}, "/nope")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

// overlay copies the embedded assets into a MapFS with one file replaced
func overlay(t *testing.T, name string, data []byte) fstest.MapFS {
	t.Helper()
	m := fstest.MapFS{}
	err := fs.WalkDir(embedded.Assets(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := fs.ReadFile(embedded.Assets(), p)
		if err != nil {
			return err
		}
		m[p] = &fstest.MapFile{Data: b}
		return nil
	})
	require.NoError(t, err)
	m[name] = &fstest.MapFile{Data: data}
	return m
}

func TestSite_Reload(t *testing.T) {
	s := newTestSite(t, &stubLedger{})

	fsys := overlay(t, "charts/nav_meo.json", []byte(`{"gin_alpha_ytd": -0.01, "sigma_63": 0.2, "cvar_95": 0.1, "slipcap_bp": 30}`))
	require.NoError(t, s.Reload(fsys))

	assert.Contains(t, renderPage(t, s, PathDemo), "-1.00%")
	require.NotNil(t, s.NavStats().GINAlphaYTD)
	assert.InDelta(t, -0.01, *s.NavStats().GINAlphaYTD, 1e-9)
}

func TestSite_ReloadFailureKeepsState(t *testing.T) {
	s := newTestSite(t, &stubLedger{})

	fsys := overlay(t, "templates/pages/home.html", []byte(`{{define "content"}}{{.Broken`))
	assert.Error(t, s.Reload(fsys))

	assert.Contains(t, renderPage(t, s, PathHome), "Open math.")
	assert.Equal(t, "GLD", s.DecisionTrace().Chosen)
}

func TestSite_ReloadRefreshesCharts(t *testing.T) {
	s := newTestSite(t, &stubLedger{})
	before, err := s.Charts().Render(charts.ScoreChart)
	require.NoError(t, err)

	trace := `{"date":"2025-06-27","last_winner_excluded":null,"candidates":["GLD","BND"],"chosen":"BND","scores":{"GLD":10,"BND":90},"sigma":{"GLD":0.2,"BND":0.1},"sigma_median":0.15,"fee_bp":12,"impact_bp":9,"cap_bp":35,"trade_allowed":true}`
	require.NoError(t, s.Reload(overlay(t, "logic/decision_trace.json", []byte(trace))))

	after, err := s.Charts().Render(charts.ScoreChart)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	assert.Equal(t, "BND", s.DecisionTrace().Chosen)
}
