package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/charts"
	"github.com/metiseon/landing/internal/modules/content"
	"github.com/metiseon/landing/internal/modules/display"
	"github.com/metiseon/landing/internal/modules/fixtures"
	"github.com/metiseon/landing/internal/modules/snippets"
)

// ErrUnknownRoute is returned when no page is registered at a path
var ErrUnknownRoute = errors.New("unknown route")

// Assets is everything loaded from one assets tree
type Assets struct {
	Content  *content.Site
	Fixtures *fixtures.Bundle
	Snippets *snippets.Registry
	Renderer *Renderer
}

// LoadAssets reads content, fixtures and templates from fsys
func LoadAssets(fsys fs.FS, theme display.Theme, log zerolog.Logger) (*Assets, error) {
	site, err := content.Load(fsys)
	if err != nil {
		return nil, err
	}

	bundle, err := fixtures.NewLoader(fsys, log).Load()
	if err != nil {
		return nil, err
	}

	registry, err := snippets.NewRegistry(site.Snippets)
	if err != nil {
		return nil, fmt.Errorf("invalid snippets: %w", err)
	}

	renderer, err := NewRenderer(fsys, theme)
	if err != nil {
		return nil, err
	}

	return &Assets{
		Content:  site,
		Fixtures: bundle,
		Snippets: registry,
		Renderer: renderer,
	}, nil
}

// ChartData returns the chart service inputs held in these assets
func (a *Assets) ChartData() charts.Data {
	trace := a.Fixtures.DecisionTrace
	return charts.Data{
		Nav:     a.Fixtures.NavSeries,
		Trace:   &trace,
		Weights: a.Fixtures.MeoWeights,
	}
}

// Options are the per-process rendering settings
type Options struct {
	CopyResetMs int
	LiveReload  bool
}

// Site is the reloadable state behind every page and read-only API. Readers
// take a consistent snapshot; Reload swaps the whole set at once.
type Site struct {
	mu       sync.RWMutex
	assets   *Assets
	composer *Composer

	ledger LedgerReader
	charts *charts.Service
	theme  display.Theme
	opts   Options
	log    zerolog.Logger
}

// NewSite creates the site from an initial asset load
func NewSite(assets *Assets, ledger LedgerReader, chartSvc *charts.Service, theme display.Theme, opts Options, log zerolog.Logger) *Site {
	s := &Site{
		ledger: ledger,
		charts: chartSvc,
		theme:  theme,
		opts:   opts,
		log:    log.With().Str("component", "site").Logger(),
	}
	s.swap(assets)
	return s
}

func (s *Site) swap(assets *Assets) {
	composer := NewComposer(assets.Content, assets.Fixtures, assets.Snippets, s.ledger, s.theme, s.log)

	s.mu.Lock()
	s.assets = assets
	s.composer = composer
	s.mu.Unlock()

	if s.charts != nil {
		s.charts.Reload(assets.ChartData())
	}
}

// Reload re-reads every asset from fsys. On error the current state is kept.
func (s *Site) Reload(fsys fs.FS) error {
	assets, err := LoadAssets(fsys, s.theme, s.log)
	if err != nil {
		s.log.Error().Err(err).Msg("Asset reload failed, keeping previous state")
		return err
	}
	s.swap(assets)
	s.log.Info().Msg("Assets reloaded")
	return nil
}

func (s *Site) snapshot() (*Assets, *Composer) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assets, s.composer
}

// Render composes and renders the page at path
func (s *Site) Render(ctx context.Context, w io.Writer, path string) error {
	route, ok := lookupRoute(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	assets, composer := s.snapshot()

	page := Page{
		Title:       route.Title,
		Path:        route.Path,
		Meta:        assets.Content.Meta,
		Links:       assets.Content.Links,
		Nav:         composer.Nav(route.Path),
		CopyResetMs: s.opts.CopyResetMs,
		LiveReload:  s.opts.LiveReload,
		Body:        route.compose(composer, ctx),
	}

	return assets.Renderer.Render(w, route.Template, page)
}

// Snippets returns the current snippet registry
func (s *Site) Snippets() *snippets.Registry {
	assets, _ := s.snapshot()
	return assets.Snippets
}

// NavStats returns the demo KPI record
func (s *Site) NavStats() domain.NavStats {
	assets, _ := s.snapshot()
	return assets.Fixtures.NavStats
}

// DecisionTrace returns the demo decision trace
func (s *Site) DecisionTrace() domain.DecisionTrace {
	assets, _ := s.snapshot()
	return assets.Fixtures.DecisionTrace
}

// Warnings returns the fixture consistency findings of the current assets
func (s *Site) Warnings() []string {
	assets, _ := s.snapshot()
	return assets.Fixtures.Warnings
}

// Content returns the current site content
func (s *Site) Content() *content.Site {
	assets, _ := s.snapshot()
	return assets.Content
}

// CopyResetWindow returns how long copy buttons stay in the copied state
func (s *Site) CopyResetWindow() time.Duration {
	return time.Duration(s.opts.CopyResetMs) * time.Millisecond
}

// Charts returns the chart service
func (s *Site) Charts() *charts.Service {
	return s.charts
}

func lookupRoute(path string) (Route, bool) {
	for _, r := range Routes() {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
