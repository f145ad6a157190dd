package charts

import (
	"strconv"
	"strings"
)

// Canonical sparkline viewport used by the equity cards
const (
	SparkWidth  = 100
	SparkHeight = 30
)

// SparkToPath draws points into the canonical 100x30 sparkline viewport
func SparkToPath(points []float64) string {
	return SparkPath(points, SparkWidth, SparkHeight)
}

// SparkPath builds an SVG path: the first point is a move, every later point a
// line. Points are spaced width/max(n-1, 1) apart and drawn at height-value.
// A single point yields one move at x=0; no points yield an empty path.
func SparkPath(points []float64, width, height float64) string {
	if len(points) == 0 {
		return ""
	}

	step := width / float64(max(len(points)-1, 1))

	var sb strings.Builder
	for i, v := range points {
		if i > 0 {
			sb.WriteByte(' ')
			sb.WriteString("L ")
		} else {
			sb.WriteString("M ")
		}
		sb.WriteString(formatCoord(float64(i) * step))
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(height - v))
	}
	return sb.String()
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
