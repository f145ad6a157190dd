package display

import (
	"github.com/metiseon/landing/internal/domain"
)

// fallbackClass is used when a theme has no class for the default variant
const fallbackClass = "text-foreground"

// Theme is the explicitly constructed styling configuration handed to the
// page renderer.
type Theme struct {
	VariantClasses map[domain.Variant]string
	AccentClass    string
	SignalClass    string
	MutedClass     string
}

// DefaultTheme returns the Metiseon palette mapping
func DefaultTheme() Theme {
	return Theme{
		VariantClasses: map[domain.Variant]string{
			domain.VariantDefault:  "text-foreground",
			domain.VariantPositive: "text-graphgreen",
			domain.VariantWarning:  "text-signal",
			domain.VariantFocus:    "text-auric",
		},
		AccentClass: "text-auric",
		SignalClass: "text-signal",
		MutedClass:  "text-muted",
	}
}

// VariantClass maps a tile variant to its style class. Unknown or empty
// variants resolve to the default variant's class; the result is never empty.
func (t Theme) VariantClass(v domain.Variant) string {
	if c := t.VariantClasses[v]; c != "" {
		return c
	}
	if c := t.VariantClasses[domain.VariantDefault]; c != "" {
		return c
	}
	return fallbackClass
}

// KPITile is a MetricTile resolved against a theme
type KPITile struct {
	Label string
	Value string
	Class string
}

// KPIStrip resolves tiles in input order
func (t Theme) KPIStrip(tiles []domain.MetricTile) []KPITile {
	out := make([]KPITile, 0, len(tiles))
	for _, tile := range tiles {
		out = append(out, KPITile{
			Label: tile.Label,
			Value: tile.Value,
			Class: t.VariantClass(tile.Variant),
		})
	}
	return out
}
