// Package display turns raw metric values into the strings and style classes
// the page templates render.
package display

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Placeholder is rendered wherever a metric is missing
const Placeholder = "—"

// PercentOptions controls FormatPercent output
type PercentOptions struct {
	Sign bool // Prefix non-negative values with "+"
}

// FormatPercent renders a fractional return as a percentage with two decimals.
// nil, NaN and infinite inputs render as Placeholder.
func FormatPercent(v *float64, opts PercentOptions) string {
	if !present(v) {
		return Placeholder
	}

	pct := strconv.FormatFloat(*v*100, 'f', 2, 64)
	if pct == "-0.00" {
		pct = "0.00"
	}
	if opts.Sign && !strings.HasPrefix(pct, "-") {
		pct = "+" + pct
	}
	return pct + "%"
}

// FormatLoss renders a tail-loss magnitude (CVaR) with an explicit minus sign
func FormatLoss(v *float64) string {
	if !present(v) {
		return Placeholder
	}
	mag := math.Abs(*v)
	return "-" + FormatPercent(&mag, PercentOptions{})
}

// FormatBasisPoints renders a basis-point figure, e.g. "35 bp"
func FormatBasisPoints(v *float64) string {
	if !present(v) {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " bp"
}

// FormatSignedQty renders a trade quantity with an explicit sign for buys
func FormatSignedQty(q float64) string {
	s := strconv.FormatFloat(q, 'f', -1, 64)
	if q > 0 {
		return "+" + s
	}
	return s
}

// FormatPrice renders a USD price with thousands separators
func FormatPrice(p float64) string {
	if p < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -p)
	}
	return "$" + humanize.FormatFloat("#,###.##", p)
}

// FormatScore renders a score using the shortest exact representation
func FormatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// YesNo renders a boolean gate outcome
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Float returns a pointer to v, for callers building optional metrics
func Float(v float64) *float64 {
	return &v
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
