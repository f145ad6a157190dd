// Package pages composes and renders the site's routes.
package pages

import (
	"context"
	"html/template"
	"strings"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/charts"
	"github.com/metiseon/landing/internal/modules/content"
	"github.com/metiseon/landing/internal/modules/display"
	"github.com/metiseon/landing/internal/modules/fixtures"
)

// Route paths
const (
	PathHome       = "/"
	PathHowItWorks = "/how-it-works"
	PathDemo       = "/demo"
	PathDocs       = "/docs"
	PathReports    = "/reports"
	PathBrand      = "/brand"
	PathDisclaimer = "/legal/disclaimer"
)

// Snippet ids the demo page shows
const (
	SnippetCLI    = "cli"
	SnippetLedger = "ledger-sql"
)

// Route binds a path to its template and composer
type Route struct {
	Path     string
	Template string
	Title    string
	compose  func(c *Composer, ctx context.Context) interface{}
}

// Routes lists every page in navigation order, then the pages linked from
// elsewhere
func Routes() []Route {
	return []Route{
		{Path: PathHome, Template: "home", Title: "Metiseon", compose: func(c *Composer, _ context.Context) interface{} { return c.Home() }},
		{Path: PathHowItWorks, Template: "how_it_works", Title: "How it works", compose: func(c *Composer, _ context.Context) interface{} { return c.HowItWorks() }},
		{Path: PathDemo, Template: "demo", Title: "Demo", compose: func(c *Composer, ctx context.Context) interface{} { return c.Demo(ctx) }},
		{Path: PathDocs, Template: "docs", Title: "Docs", compose: func(c *Composer, _ context.Context) interface{} { return c.Docs() }},
		{Path: PathReports, Template: "reports", Title: "Reports", compose: func(c *Composer, _ context.Context) interface{} { return c.Reports() }},
		{Path: PathBrand, Template: "brand", Title: "Brand", compose: func(c *Composer, _ context.Context) interface{} { return c.Brand() }},
		{Path: PathDisclaimer, Template: "disclaimer", Title: "Legal Disclaimer", compose: func(c *Composer, _ context.Context) interface{} { return c.Disclaimer() }},
	}
}

// LedgerReader yields the newest ledger rows
type LedgerReader interface {
	Latest(ctx context.Context, limit int) ([]domain.LedgerTrade, error)
}

// SnippetLookup resolves snippet ids
type SnippetLookup interface {
	Get(id string) (domain.Snippet, error)
}

// Composer builds each route's view model from content and fixtures. It only
// reads its inputs.
type Composer struct {
	site     *content.Site
	fixtures *fixtures.Bundle
	snippets SnippetLookup
	ledger   LedgerReader
	theme    display.Theme
	log      zerolog.Logger
}

// NewComposer creates a new page composer
func NewComposer(
	site *content.Site,
	bundle *fixtures.Bundle,
	snippets SnippetLookup,
	ledger LedgerReader,
	theme display.Theme,
	log zerolog.Logger,
) *Composer {
	return &Composer{
		site:     site,
		fixtures: bundle,
		snippets: snippets,
		ledger:   ledger,
		theme:    theme,
		log:      log.With().Str("component", "composer").Logger(),
	}
}

// Nav resolves the header links against the current path
func (c *Composer) Nav(current string) []NavItem {
	items := make([]NavItem, 0, len(c.site.Nav))
	for _, l := range c.site.Nav {
		items = append(items, NavItem{Label: l.Label, Path: l.Path, Active: l.Path == current})
	}
	return items
}

// Home composes the landing page
func (c *Composer) Home() HomeView {
	h := c.site.Home
	return HomeView{
		Headline:     h.Headline,
		Intro:        template.HTML(h.IntroHTML),
		PrimaryCTA:   h.PrimaryCTA,
		SecondaryCTA: h.SecondaryCTA,
		Features:     h.Features,
		Footnote:     h.Footnote,
	}
}

// HowItWorks composes the numbered methodology page
func (c *Composer) HowItWorks() HowItWorksView {
	hw := c.site.HowItWorks
	steps := make([]StepView, 0, len(hw.Steps))
	for i, s := range hw.Steps {
		steps = append(steps, StepView{
			Number:       i + 1,
			Title:        s.Title,
			Body:         textOrHTML(s.Body, s.BodyHTML),
			Formula:      template.HTML(s.FormulaHTML),
			Fallback:     s.Fallback,
			FallbackNote: s.FallbackNote,
		})
	}
	return HowItWorksView{Intro: hw.Intro, Steps: steps, Footnote: hw.Footnote}
}

// Demo composes the backtest demo page. A ledger failure leaves the snapshot
// empty and flagged rather than failing the page.
func (c *Composer) Demo(ctx context.Context) DemoView {
	d := c.site.Demo
	stats := c.fixtures.NavStats

	view := DemoView{
		Intro:     d.Intro,
		CLI:       c.codeBlock(SnippetCLI),
		LedgerSQL: c.codeBlock(SnippetLedger),
		NavChart: ChartCardView{
			Title:    d.ChartTitle,
			Subtitle: d.ChartSubtitle,
			ImageSrc: "/" + charts.NavChart,
			ImageAlt: "NAV (MEΩ), 2015–2025",
		},
		KPIs: []display.KPITile{
			{Label: "GINα (YTD)", Value: display.FormatPercent(stats.GINAlphaYTD, display.PercentOptions{Sign: true}), Class: c.theme.VariantClass(domain.VariantFocus)},
			{Label: "σ63", Value: display.FormatPercent(stats.Sigma63, display.PercentOptions{}), Class: c.theme.VariantClass(domain.VariantDefault)},
			{Label: "CVaR95", Value: display.FormatLoss(stats.CVaR95), Class: c.theme.VariantClass(domain.VariantWarning)},
			{Label: "SlipCap", Value: display.FormatBasisPoints(stats.SlipCapBp), Class: c.theme.VariantClass(domain.VariantDefault)},
		},
		Trace:       TraceViewOf(c.fixtures.DecisionTrace),
		TraceNote:   d.TraceSubtitle,
		ScoreChart:  "/" + charts.ScoreChart,
		SigmaChart:  "/" + charts.SigmaGateChart,
		WeightsSrc:  "/" + charts.WeightsChart,
		WeightsNote: d.WeightsNote,
	}

	trades, err := c.ledger.Latest(ctx, 5)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to read ledger snapshot")
		view.LedgerError = true
		return view
	}
	for _, t := range trades {
		view.Ledger = append(view.Ledger, LedgerRowViewOf(t))
	}
	return view
}

// Docs composes the papers page
func (c *Composer) Docs() DocsView {
	d := c.site.Docs
	return DocsView{
		Intro:      d.Intro,
		Papers:     d.Papers,
		Stability:  d.Stability,
		Governance: d.Governance,
	}
}

// Reports composes the portfolio overview with sample equities
func (c *Composer) Reports() ReportsView {
	r := c.site.Reports

	equities := make([]EquityCardView, 0, len(r.Equities))
	for _, e := range r.Equities {
		equities = append(equities, EquityCardView{
			Ticker:    e.Ticker,
			Name:      e.Name,
			GINAlpha:  e.GINAlpha,
			Sigma:     e.Sigma,
			CVaR:      e.CVaR,
			SlipCap:   e.SlipCap,
			SparkPath: charts.SparkToPath(e.Spark),
		})
	}

	return ReportsView{
		Intro: r.Intro,
		KPIs:  c.theme.KPIStrip(r.Metrics),
		NavChart: ChartCardView{
			Title:    r.NavTitle,
			Subtitle: r.NavSubtitle,
			LinePath: r.NavPath,
			AreaPath: r.NavAreaPath,
		},
		Equities: equities,
		Footnote: r.Footnote,
	}
}

// Brand composes the brand assets page
func (c *Composer) Brand() BrandView {
	b := c.site.Brand
	return BrandView{
		Intro:      b.Intro,
		Assets:     b.Assets,
		Guidelines: b.Guidelines,
		Palette:    b.Palette,
	}
}

// Disclaimer composes the legal page
func (c *Composer) Disclaimer() DisclaimerView {
	d := c.site.Disclaimer
	paragraphs := make([]ClauseView, 0, len(d.Paragraphs))
	for _, p := range d.Paragraphs {
		paragraphs = append(paragraphs, ClauseView{Lead: p.Lead, Body: textOrHTML(p.Body, p.BodyHTML)})
	}
	return DisclaimerView{
		Intro:           d.Intro,
		Heading:         d.Heading,
		Paragraphs:      paragraphs,
		Acknowledgement: d.Acknowledgement,
		Updated:         d.Updated,
	}
}

func (c *Composer) codeBlock(id string) CodeBlockView {
	s, err := c.snippets.Get(id)
	if err != nil {
		c.log.Warn().Err(err).Str("snippet", id).Msg("Snippet missing from content")
		return CodeBlockView{ID: id, Language: "bash"}
	}
	return CodeBlockView{ID: s.ID, Language: s.Language, Code: s.Code}
}

// TraceViewOf formats a decision trace for display. Score and sigma rows
// follow candidate order, then any other tickers sorted.
func TraceViewOf(t domain.DecisionTrace) TraceView {
	view := TraceView{
		Date:               t.Date,
		LastWinnerExcluded: display.Placeholder,
		Candidates:         strings.Join(t.Candidates, ", "),
		Chosen:             t.Chosen,
		SigmaMedian:        display.FormatPercent(display.Float(t.SigmaMedian), display.PercentOptions{}),
		Fee:                display.FormatBasisPoints(display.Float(t.FeeBp)),
		Impact:             display.FormatBasisPoints(display.Float(t.ImpactBp)),
		Cap:                display.FormatBasisPoints(display.Float(t.CapBp)),
		Allowed:            display.YesNo(t.TradeAllowed),
	}
	if t.LastWinnerExcluded != nil && *t.LastWinnerExcluded != "" {
		view.LastWinnerExcluded = *t.LastWinnerExcluded
	}

	for _, ticker := range t.TickerOrder(t.Scores) {
		view.Scores = append(view.Scores, KeyValue{Key: ticker, Value: display.FormatScore(t.Scores[ticker])})
	}
	for _, ticker := range t.TickerOrder(t.Sigma) {
		view.Sigma = append(view.Sigma, KeyValue{
			Key:   ticker,
			Value: display.FormatPercent(display.Float(t.Sigma[ticker]), display.PercentOptions{}),
		})
	}
	return view
}

// LedgerRowViewOf formats one trade the way the snapshot table shows it
func LedgerRowViewOf(t domain.LedgerTrade) LedgerRowView {
	return LedgerRowView{
		TS:     t.TS.UTC().Format("2006-01-02T15:04Z"),
		Ticker: t.Ticker,
		Qty:    display.FormatSignedQty(t.Qty),
		Price:  display.FormatPrice(t.Price),
		Fee:    display.FormatBasisPoints(display.Float(t.FeeBp)),
	}
}

// textOrHTML prefers trusted markup and escapes plain text
func textOrHTML(text, trusted string) template.HTML {
	if trusted != "" {
		return template.HTML(trusted)
	}
	return template.HTML(template.HTMLEscapeString(text))
}
