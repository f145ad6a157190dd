// Package fixtures loads and checks the pre-baked JSON assets behind the demo
// page: nav stats, the decision trace, the NAV series and MEΩ weights.
package fixtures

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/metiseon/landing/internal/domain"
)

// Asset paths inside the assets tree
const (
	NavStatsPath      = "charts/nav_meo.json"
	NavSeriesPath     = "charts/nav_series.json"
	DecisionTracePath = "logic/decision_trace.json"
	MeoWeightsPath    = "logic/meo_weights.json"
)

// ErrInvalidTrace is returned when the decision trace breaks its schema
var ErrInvalidTrace = errors.New("invalid decision trace")

// medianTolerance absorbs rounding in the recorded median
const medianTolerance = 1e-6

// Bundle is the full fixture set, loaded once and read-only afterwards
type Bundle struct {
	NavStats      domain.NavStats
	DecisionTrace domain.DecisionTrace
	NavSeries     []domain.NavPoint
	MeoWeights    []domain.MeoWeight
	WeightsDate   string
	Warnings      []string
}

type meoWeightsFile struct {
	Date    string             `json:"date"`
	Weights []domain.MeoWeight `json:"weights"`
}

// Loader decodes fixtures from an fs.FS
type Loader struct {
	fsys fs.FS
	log  zerolog.Logger
}

// NewLoader creates a new fixtures loader
func NewLoader(fsys fs.FS, log zerolog.Logger) *Loader {
	return &Loader{
		fsys: fsys,
		log:  log.With().Str("component", "fixtures").Logger(),
	}
}

// Load reads every fixture. Schema violations are errors; consistency
// mismatches are recorded in Bundle.Warnings and logged.
func (l *Loader) Load() (*Bundle, error) {
	var b Bundle

	if err := l.decode(NavStatsPath, &b.NavStats); err != nil {
		return nil, err
	}
	if err := l.decode(DecisionTracePath, &b.DecisionTrace); err != nil {
		return nil, err
	}
	if err := l.decode(NavSeriesPath, &b.NavSeries); err != nil {
		return nil, err
	}

	var weights meoWeightsFile
	if err := l.decode(MeoWeightsPath, &weights); err != nil {
		return nil, err
	}
	b.MeoWeights = weights.Weights
	b.WeightsDate = weights.Date

	if err := ValidateTrace(b.DecisionTrace); err != nil {
		return nil, err
	}
	if err := validateSeries(b.NavSeries); err != nil {
		return nil, err
	}

	b.Warnings = CheckTrace(b.DecisionTrace)
	for _, w := range b.Warnings {
		l.log.Warn().Str("asset", DecisionTracePath).Msg(w)
	}

	l.log.Debug().
		Int("nav_points", len(b.NavSeries)).
		Int("meo_weights", len(b.MeoWeights)).
		Str("trace_date", b.DecisionTrace.Date).
		Msg("Fixtures loaded")

	return &b, nil
}

func (l *Loader) decode(path string, v interface{}) error {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// ValidateTrace enforces the decision trace schema
func ValidateTrace(t domain.DecisionTrace) error {
	if t.Date == "" {
		return fmt.Errorf("%w: missing date", ErrInvalidTrace)
	}
	if len(t.Candidates) == 0 {
		return fmt.Errorf("%w: no candidates", ErrInvalidTrace)
	}
	found := false
	for _, c := range t.Candidates {
		if c == t.Chosen {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: chosen %q is not a candidate", ErrInvalidTrace, t.Chosen)
	}
	return nil
}

// CheckTrace recomputes the derived fields of a trace and describes any
// disagreement with what was recorded
func CheckTrace(t domain.DecisionTrace) []string {
	var warnings []string

	if len(t.Sigma) > 0 {
		sigmas := make([]float64, 0, len(t.Candidates))
		for _, c := range t.Candidates {
			if s, ok := t.Sigma[c]; ok {
				sigmas = append(sigmas, s)
			}
		}
		if median := Median(sigmas); !math.IsNaN(median) && math.Abs(median-t.SigmaMedian) > medianTolerance {
			warnings = append(warnings, fmt.Sprintf(
				"sigma_median %.6f differs from recomputed median %.6f", t.SigmaMedian, median))
		}
	}

	allowed := t.CostBp() <= t.CapBp
	if allowed != t.TradeAllowed {
		warnings = append(warnings, fmt.Sprintf(
			"trade_allowed=%t but fee_bp + impact_bp = %g against cap_bp %g", t.TradeAllowed, t.CostBp(), t.CapBp))
	}

	for _, c := range t.Candidates {
		if _, ok := t.Scores[c]; !ok {
			warnings = append(warnings, fmt.Sprintf("candidate %s has no score", c))
		}
	}

	return warnings
}

// Median returns the median of values, NaN when empty. Even-length inputs
// average the two middle values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}

func validateSeries(points []domain.NavPoint) error {
	for i := 1; i < len(points); i++ {
		if points[i].Date <= points[i-1].Date {
			return fmt.Errorf("%s: dates must be strictly increasing at index %d", NavSeriesPath, i)
		}
	}
	return nil
}
