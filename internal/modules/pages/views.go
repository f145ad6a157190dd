package pages

import (
	"html/template"

	"github.com/metiseon/landing/internal/modules/content"
	"github.com/metiseon/landing/internal/modules/display"
)

// Page is the data every template receives: shared chrome plus the route's
// own view model in Body
type Page struct {
	Title       string
	Path        string
	Meta        content.Meta
	Links       content.Links
	Nav         []NavItem
	CopyResetMs int
	LiveReload  bool
	Body        interface{}
}

// NavItem is a header link with its active state resolved
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// CodeBlockView feeds the copyable code block component
type CodeBlockView struct {
	ID       string
	Language string
	Code     string
}

// ChartCardView frames a chart with a title. Either ImageSrc or LinePath is
// set: an image chart or an inline 400x200 path.
type ChartCardView struct {
	Title    string
	Subtitle string
	ImageSrc string
	ImageAlt string
	LinePath string
	AreaPath string
}

// EquityCardView is one sample equity with its sparkline resolved to a path
type EquityCardView struct {
	Ticker    string
	Name      string
	GINAlpha  string
	Sigma     string
	CVaR      string
	SlipCap   string
	SparkPath string
}

// KeyValue is one labelled row of the decision trace panel
type KeyValue struct {
	Key   string
	Value string
}

// TraceView is the decision trace with every value formatted
type TraceView struct {
	Date               string
	LastWinnerExcluded string
	Candidates         string
	Chosen             string
	Scores             []KeyValue
	Sigma              []KeyValue
	SigmaMedian        string
	Fee                string
	Impact             string
	Cap                string
	Allowed            string
}

// LedgerRowView is one formatted ledger row
type LedgerRowView struct {
	TS     string
	Ticker string
	Qty    string
	Price  string
	Fee    string
}

type HomeView struct {
	Headline     string
	Intro        template.HTML
	PrimaryCTA   content.NavLink
	SecondaryCTA content.NavLink
	Features     []content.Feature
	Footnote     string
}

// StepView is a numbered how-it-works section
type StepView struct {
	Number       int
	Title        string
	Body         template.HTML
	Formula      template.HTML
	Fallback     string
	FallbackNote string
}

type HowItWorksView struct {
	Intro    string
	Steps    []StepView
	Footnote string
}

type DemoView struct {
	Intro       string
	CLI         CodeBlockView
	LedgerSQL   CodeBlockView
	NavChart    ChartCardView
	KPIs        []display.KPITile
	Trace       TraceView
	TraceNote   string
	ScoreChart  string
	SigmaChart  string
	WeightsSrc  string
	WeightsNote string
	Ledger      []LedgerRowView
	LedgerError bool
}

type DocsView struct {
	Intro      string
	Papers     []content.Paper
	Stability  content.Feature
	Governance content.Feature
}

type ReportsView struct {
	Intro    string
	KPIs     []display.KPITile
	NavChart ChartCardView
	Equities []EquityCardView
	Footnote string
}

type BrandView struct {
	Intro      string
	Assets     []content.BrandAsset
	Guidelines []content.Guideline
	Palette    []content.Swatch
}

// ClauseView is one disclaimer paragraph
type ClauseView struct {
	Lead string
	Body template.HTML
}

type DisclaimerView struct {
	Intro           string
	Heading         string
	Paragraphs      []ClauseView
	Acknowledgement string
	Updated         string
}
