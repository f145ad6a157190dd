// Package content loads the site copy and sample tables from site.yaml.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/metiseon/landing/internal/domain"
)

// Path is the location of the content file inside the assets tree
const Path = "content/site.yaml"

// Site is everything the page composers read from site.yaml
type Site struct {
	Meta       Meta                 `yaml:"site"`
	Links      Links                `yaml:"links"`
	Nav        []NavLink            `yaml:"nav"`
	Home       Home                 `yaml:"home"`
	HowItWorks HowItWorks           `yaml:"how_it_works"`
	Demo       Demo                 `yaml:"demo"`
	Docs       Docs                 `yaml:"docs"`
	Reports    Reports              `yaml:"reports"`
	Brand      Brand                `yaml:"brand"`
	Disclaimer Disclaimer           `yaml:"disclaimer"`
	Ledger     []domain.LedgerTrade `yaml:"ledger"`
	Snippets   []domain.Snippet     `yaml:"snippets"`
}

type Meta struct {
	Name        string `yaml:"name"`
	Monogram    string `yaml:"monogram"`
	Badge       string `yaml:"badge"`
	FooterNote  string `yaml:"footer_note"`
	DataSources string `yaml:"data_sources"`
}

// Links are the outbound destinations
type Links struct {
	Metior     string `yaml:"metior"`
	Codespaces string `yaml:"codespaces"`
	Colab      string `yaml:"colab"`
}

type NavLink struct {
	Label string `yaml:"label"`
	Path  string `yaml:"path"`
}

type Feature struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type Home struct {
	Headline     string    `yaml:"headline"`
	IntroHTML    string    `yaml:"intro_html"`
	PrimaryCTA   NavLink   `yaml:"primary_cta"`
	SecondaryCTA NavLink   `yaml:"secondary_cta"`
	Features     []Feature `yaml:"features"`
	Footnote     string    `yaml:"footnote"`
}

// Step is one numbered section of the how-it-works page
type Step struct {
	Title        string `yaml:"title"`
	Body         string `yaml:"body"`
	BodyHTML     string `yaml:"body_html"`
	FormulaHTML  string `yaml:"formula_html"`
	Fallback     string `yaml:"fallback"`
	FallbackNote string `yaml:"fallback_note"`
}

type HowItWorks struct {
	Intro    string `yaml:"intro"`
	Steps    []Step `yaml:"steps"`
	Footnote string `yaml:"footnote"`
}

type Demo struct {
	Intro         string `yaml:"intro"`
	ChartTitle    string `yaml:"chart_title"`
	ChartSubtitle string `yaml:"chart_subtitle"`
	TraceSubtitle string `yaml:"trace_subtitle"`
	WeightsNote   string `yaml:"weights_note"`
}

type Paper struct {
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

type Docs struct {
	Intro      string  `yaml:"intro"`
	Papers     []Paper `yaml:"papers"`
	Stability  Feature `yaml:"stability"`
	Governance Feature `yaml:"governance"`
}

type Reports struct {
	Intro       string                `yaml:"intro"`
	Metrics     []domain.MetricTile   `yaml:"metrics"`
	NavTitle    string                `yaml:"nav_title"`
	NavSubtitle string                `yaml:"nav_subtitle"`
	NavPath     string                `yaml:"nav_path"`
	NavAreaPath string                `yaml:"nav_area_path"`
	Equities    []domain.EquitySample `yaml:"equities"`
	Footnote    string                `yaml:"footnote"`
}

type BrandAsset struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
	Size string `yaml:"size"`
}

type Guideline struct {
	Rule  string `yaml:"rule"`
	Value string `yaml:"value"`
}

type Swatch struct {
	Name     string `yaml:"name"`
	Hex      string `yaml:"hex"`
	Variable string `yaml:"variable"`
}

type Brand struct {
	Intro      string       `yaml:"intro"`
	Assets     []BrandAsset `yaml:"assets"`
	Guidelines []Guideline  `yaml:"guidelines"`
	Palette    []Swatch     `yaml:"palette"`
}

// Clause is one disclaimer paragraph: a bold lead followed by plain or
// trusted-markup body text
type Clause struct {
	Lead     string `yaml:"lead"`
	Body     string `yaml:"body"`
	BodyHTML string `yaml:"body_html"`
}

type Disclaimer struct {
	Intro           string   `yaml:"intro"`
	Heading         string   `yaml:"heading"`
	Updated         string   `yaml:"updated"`
	Paragraphs      []Clause `yaml:"paragraphs"`
	Acknowledgement string   `yaml:"acknowledgement"`
}

// Load reads and validates site.yaml from fsys
func Load(fsys fs.FS) (*Site, error) {
	data, err := fs.ReadFile(fsys, Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", Path, err)
	}
	return Parse(data)
}

// Parse decodes site content. Unknown keys are rejected so typos in the
// content file surface at startup.
func Parse(data []byte) (*Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var site Site
	if err := dec.Decode(&site); err != nil {
		return nil, fmt.Errorf("failed to decode site content: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks the invariants the page composers rely on
func (s *Site) Validate() error {
	var errs []error

	if len(s.Nav) == 0 {
		errs = append(errs, errors.New("nav is empty"))
	}
	for _, eq := range s.Reports.Equities {
		if len(eq.Spark) == 0 {
			errs = append(errs, fmt.Errorf("equity %s has no sparkline points", eq.Ticker))
		}
	}
	for i, t := range s.Ledger {
		if t.Ticker == "" || t.TS.IsZero() {
			errs = append(errs, fmt.Errorf("ledger row %d needs ts and ticker", i))
		}
	}
	seen := make(map[string]bool, len(s.Snippets))
	for i, sn := range s.Snippets {
		switch {
		case sn.ID == "":
			errs = append(errs, fmt.Errorf("snippet %d has no id", i))
		case seen[sn.ID]:
			errs = append(errs, fmt.Errorf("duplicate snippet id %q", sn.ID))
		}
		seen[sn.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid site content: %w", errors.Join(errs...))
	}
	return nil
}
