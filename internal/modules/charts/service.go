// Package charts renders the site's SVG charts and sparkline paths.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/metiseon/landing/internal/domain"
)

// Chart paths, relative to the site root
const (
	NavChart       = "charts/nav_meo.svg"
	ScoreChart     = "logic/score_breakdown.svg"
	SigmaGateChart = "logic/sigma_gate.svg"
	WeightsChart   = "logic/meo_weights.svg"
)

// ErrUnknownChart is returned when a chart path is not one the service renders
var ErrUnknownChart = errors.New("unknown chart")

// Ranges lists the NAV ranges NavSeries understands
var Ranges = []string{"1M", "3M", "6M", "1Y", "YTD", "ALL"}

// ValidRange reports whether r is one of Ranges
func ValidRange(r string) bool {
	for _, known := range Ranges {
		if r == known {
			return true
		}
	}
	return false
}

// Brand palette
var (
	colorMidnight   = drawing.ColorFromHex("0B1220")
	colorAuric      = drawing.ColorFromHex("C8A156")
	colorPlatinum   = drawing.ColorFromHex("A9B2C3")
	colorSnow       = drawing.ColorFromHex("F8FAFC")
	colorGraphGreen = drawing.ColorFromHex("2ECC71")
	colorSignal     = drawing.ColorFromHex("FF7A45")
)

// ChartDataPoint represents a single point on a chart
type ChartDataPoint struct {
	Time  string  `json:"time"`  // YYYY-MM-DD format
	Value float64 `json:"value"` // NAV in MEΩ
}

// Data is the fixture set the charts are drawn from
type Data struct {
	Nav     []domain.NavPoint
	Trace   *domain.DecisionTrace
	Weights []domain.MeoWeight
}

// Service renders charts once and serves them from cache
type Service struct {
	mu    sync.RWMutex
	data  Data
	gen   uint64 // bumped by Reload; renders from older data are not cached
	cache map[string][]byte
	log   zerolog.Logger
}

// NewService creates a new charts service
func NewService(data Data, log zerolog.Logger) *Service {
	return &Service{
		data:  data,
		cache: make(map[string][]byte),
		log:   log.With().Str("service", "charts").Logger(),
	}
}

// Names returns every chart path the service can render, sorted
func (s *Service) Names() []string {
	names := []string{NavChart, ScoreChart, SigmaGateChart, WeightsChart}
	sort.Strings(names)
	return names
}

// Reload swaps the underlying data and drops every cached render
func (s *Service) Reload(data Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.gen++
	s.cache = make(map[string][]byte)
	s.log.Debug().Msg("Chart cache cleared")
}

// Render returns the SVG bytes for a chart path
func (s *Service) Render(name string) ([]byte, error) {
	s.mu.RLock()
	if svg, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return svg, nil
	}
	data, gen := s.data, s.gen
	s.mu.RUnlock()

	var (
		svg []byte
		err error
	)
	switch name {
	case NavChart:
		svg, err = RenderNavChart(data.Nav)
	case ScoreChart:
		svg, err = RenderScoreChart(data.Trace)
	case SigmaGateChart:
		svg, err = RenderSigmaGateChart(data.Trace)
	case WeightsChart:
		svg, err = RenderWeightsChart(data.Weights)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	s.store(name, svg, gen)

	s.log.Debug().Str("chart", name).Int("bytes", len(svg)).Msg("Rendered chart")
	return svg, nil
}

// store caches svg unless a Reload happened since it was rendered
func (s *Service) store(name string, svg []byte, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.cache[name] = svg
	return true
}

// NavSeries returns the NAV series as chart points, limited to dateRange.
// Ranges are measured back from the last sample, not from today, because the
// series is a frozen backtest.
func (s *Service) NavSeries(dateRange string) []ChartDataPoint {
	s.mu.RLock()
	nav := s.data.Nav
	s.mu.RUnlock()

	if len(nav) == 0 {
		return []ChartDataPoint{}
	}

	startDate := ""
	if last, err := time.Parse("2006-01-02", nav[len(nav)-1].Date); err == nil {
		startDate = parseDateRange(dateRange, last)
	}

	points := make([]ChartDataPoint, 0, len(nav))
	for _, p := range nav {
		if startDate != "" && p.Date < startDate {
			continue
		}
		points = append(points, ChartDataPoint{Time: p.Date, Value: p.NAV})
	}
	return points
}

// parseDateRange converts a range string to a start date relative to asOf
func parseDateRange(rangeStr string, asOf time.Time) string {
	var startDate time.Time

	switch rangeStr {
	case "1M":
		startDate = asOf.AddDate(0, -1, 0)
	case "3M":
		startDate = asOf.AddDate(0, -3, 0)
	case "6M":
		startDate = asOf.AddDate(0, -6, 0)
	case "1Y":
		startDate = asOf.AddDate(-1, 0, 0)
	case "YTD":
		startDate = time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return ""
	}

	return startDate.Format("2006-01-02")
}

// RenderNavChart renders the MEΩ-denominated NAV line as SVG
func RenderNavChart(points []domain.NavPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		t, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q at index %d: %w", p.Date, i, err)
		}
		xValues[i] = t
		yValues[i] = p.NAV
	}

	graph := chart.Chart{
		Title:      "NAV (MEΩ)",
		TitleStyle: chart.Style{FontColor: colorSnow},
		Width:      1280,
		Height:     720,
		Background: chart.Style{
			FillColor: colorMidnight,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: colorMidnight},
		XAxis: chart.XAxis{
			Style: axisStyle(),
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("2006")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Style: axisStyle(),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "NAV",
				Style: chart.Style{
					StrokeColor: colorAuric,
					StrokeWidth: 2.5,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	return renderSVG(graph)
}

// RenderScoreChart renders the Durability-Lite score per candidate, chosen
// ticker highlighted
func RenderScoreChart(trace *domain.DecisionTrace) ([]byte, error) {
	if trace == nil || len(trace.Scores) == 0 {
		return nil, errors.New("decision trace has no scores")
	}

	bars := make([]chart.Value, 0, len(trace.Scores))
	for _, ticker := range trace.TickerOrder(trace.Scores) {
		color := colorPlatinum
		if ticker == trace.Chosen {
			color = colorGraphGreen
		}
		bars = append(bars, bar(ticker, trace.Scores[ticker], color))
	}

	return renderBars("Durability-Lite flags (base=25)", bars)
}

// RenderSigmaGateChart renders each candidate's σ next to the median. The
// median bar is signal orange, the chosen ticker green.
func RenderSigmaGateChart(trace *domain.DecisionTrace) ([]byte, error) {
	if trace == nil || len(trace.Sigma) == 0 {
		return nil, errors.New("decision trace has no sigma values")
	}

	bars := make([]chart.Value, 0, len(trace.Sigma)+1)
	for _, ticker := range trace.TickerOrder(trace.Sigma) {
		color := colorPlatinum
		if ticker == trace.Chosen {
			color = colorGraphGreen
		}
		bars = append(bars, bar(ticker, trace.Sigma[ticker]*100, color))
	}
	bars = append(bars, bar("median", trace.SigmaMedian*100, colorSignal))

	return renderBars("σ (MEΩ-relative, %)", bars)
}

// RenderWeightsChart renders the ten largest MEΩ basket weights
func RenderWeightsChart(weights []domain.MeoWeight) ([]byte, error) {
	if len(weights) == 0 {
		return nil, errors.New("no MEΩ weights")
	}

	sorted := make([]domain.MeoWeight, len(weights))
	copy(sorted, weights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})
	if len(sorted) > 10 {
		sorted = sorted[:10]
	}

	bars := make([]chart.Value, 0, len(sorted))
	for _, w := range sorted {
		bars = append(bars, bar(w.Symbol, w.Weight*100, colorAuric))
	}

	return renderBars("MEΩ top-10 weights (%)", bars)
}

func bar(label string, value float64, color drawing.Color) chart.Value {
	return chart.Value{
		Label: label,
		Value: value,
		Style: chart.Style{
			FillColor:   color,
			StrokeColor: color,
		},
	}
}

func renderBars(title string, bars []chart.Value) ([]byte, error) {
	// A flat or all-zero series has no y range; pin the axis so it still draws
	maxValue := 0.0
	for _, b := range bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: colorSnow},
		Width:      640,
		Height:     320,
		BarWidth:   32,
		Background: chart.Style{
			FillColor: colorMidnight,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{FillColor: colorMidnight},
		XAxis:  axisStyle(),
		YAxis: chart.YAxis{
			Style: axisStyle(),
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func renderSVG(graph chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func axisStyle() chart.Style {
	return chart.Style{
		FontColor:   colorPlatinum,
		StrokeColor: colorPlatinum,
	}
}
