// Package domain provides the display records shared by the page composers.
package domain

import (
	"sort"
	"time"
)

// Variant is a rendering hint for a KPI tile
type Variant string

const (
	VariantDefault  Variant = "default"
	VariantPositive Variant = "positive"
	VariantWarning  Variant = "warning"
	VariantFocus    Variant = "focus"
)

// MetricTile is a labeled single-value display unit
type MetricTile struct {
	Label   string  `json:"label" yaml:"label"`
	Value   string  `json:"value" yaml:"value"`
	Variant Variant `json:"variant,omitempty" yaml:"variant"`
}

// EquitySample is one sample equity card on the reports page.
// Spark must hold at least one point.
type EquitySample struct {
	Ticker   string    `json:"ticker" yaml:"ticker"`
	Name     string    `json:"name" yaml:"name"`
	GINAlpha string    `json:"gina" yaml:"gina"`
	Sigma    string    `json:"sigma" yaml:"sigma"`
	CVaR     string    `json:"cvar" yaml:"cvar"`
	SlipCap  string    `json:"slipcap" yaml:"slipcap"`
	Spark    []float64 `json:"spark" yaml:"spark"`
}

// NavStats is the precomputed performance record behind the demo KPIs.
// Any field may be null in the asset.
type NavStats struct {
	GINAlphaYTD *float64 `json:"gin_alpha_ytd"`
	Sigma63     *float64 `json:"sigma_63"`
	CVaR95      *float64 `json:"cvar_95"`
	SlipCapBp   *float64 `json:"slipcap_bp"`
}

// DecisionTrace is a snapshot of one simulated weekly allocation decision
type DecisionTrace struct {
	Date               string             `json:"date"`
	LastWinnerExcluded *string            `json:"last_winner_excluded"`
	Candidates         []string           `json:"candidates"`
	Chosen             string             `json:"chosen"`
	Scores             map[string]float64 `json:"scores"`
	Sigma              map[string]float64 `json:"sigma"`
	SigmaMedian        float64            `json:"sigma_median"`
	FeeBp              float64            `json:"fee_bp"`
	ImpactBp           float64            `json:"impact_bp"`
	CapBp              float64            `json:"cap_bp"`
	TradeAllowed       bool               `json:"trade_allowed"`
}

// CostBp is the all-in trading cost checked against the cap
func (t DecisionTrace) CostBp() float64 {
	return t.FeeBp + t.ImpactBp
}

// TickerOrder returns the keys of m in candidate order first, then any
// remaining keys sorted alphabetically.
func (t DecisionTrace) TickerOrder(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, c := range t.Candidates {
		if _, ok := m[c]; ok && !seen[c] {
			keys = append(keys, c)
			seen[c] = true
		}
	}

	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(keys, rest...)
}

// NavPoint is one observation of the MEΩ-denominated NAV series
type NavPoint struct {
	Date string  `json:"date"` // YYYY-MM-DD
	NAV  float64 `json:"nav"`
}

// MeoWeight is one constituent of the MEΩ numeraire
type MeoWeight struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
}

// LedgerTrade is one row of the read-only ledger snapshot
type LedgerTrade struct {
	TS     time.Time `json:"ts" yaml:"ts"`
	Ticker string    `json:"ticker" yaml:"ticker"`
	Qty    float64   `json:"qty" yaml:"qty"`
	Price  float64   `json:"price" yaml:"price"`
	FeeBp  float64   `json:"fee_bp" yaml:"fee_bp"`
}

// Snippet is a copyable code block
type Snippet struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title,omitempty" yaml:"title"`
	Language string `json:"language" yaml:"language"`
	Code     string `json:"code" yaml:"code"`
}
