package stream

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledtween/tween"
)

// GradientTable stores the colour stops of a gradient, ordered by position.
type GradientTable []struct {
	Col   colorful.Color
	Alpha float64
	Pos   float64
}

// NewGradientTable builds a table from the colour stops of g. Stops whose
// colour cannot be parsed are skipped.
func NewGradientTable(g tween.Gradient) GradientTable {
	table := make(GradientTable, 0, len(g.ColorStops))
	for _, stop := range g.ColorStops {
		rgba, ok := tween.ParseColor(stop.Color)
		if !ok || math.IsNaN(stop.Offset) {
			continue
		}
		c, alpha := rgba.Colorful()
		table = append(table, struct {
			Col   colorful.Color
			Alpha float64
			Pos   float64
		}{c, alpha, stop.Offset})
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].Pos < table[j].Pos })
	return table
}

// GetColor gets the colour at the specified point of the table.
func (g GradientTable) GetColor(t float64) (colorful.Color, float64) {
	if len(g) == 0 {
		return colorful.Color{}, 0
	}
	if t <= g[0].Pos {
		return g[0].Col, g[0].Alpha
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			if c2.Pos == c1.Pos {
				return c2.Col, c2.Alpha
			}
			// We are in between c1 and c2. Go blend them!
			w := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendLab(c2.Col, w).Clamped(), c1.Alpha + (c2.Alpha-c1.Alpha)*w
		}
	}

	// Nothing found? Means we're at (or past) the last gradient keypoint.
	last := g[len(g)-1]
	return last.Col, last.Alpha
}

// gradientPosition maps a pixel at u in [0, 1] along the strip onto the
// gradient axis. Linear gradients run from X to X2; radial gradients grow
// outward from X with radius R.
func gradientPosition(g tween.Gradient, u float64) float64 {
	var t float64
	switch g.Type {
	case tween.RadialGradient:
		if g.R > 0 {
			t = math.Abs(u-g.X) / g.R
		}
	default:
		if span := g.X2 - g.X; span != 0 {
			t = (u - g.X) / span
		}
	}
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}
