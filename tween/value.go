package tween

import (
	"fmt"
	"math"
)

// ValueKind identifies how a track interpolates its keyframe values.
type ValueKind int

const (
	// KindNone is the kind of a track that has not been prepared.
	KindNone ValueKind = iota
	// KindNumber interpolates a single float64.
	KindNumber
	// KindVector interpolates a []float64 element-wise.
	KindVector
	// KindMatrix interpolates a [][]float64 element-wise.
	KindMatrix
	// KindColor interpolates a colour string as [r, g, b, a].
	KindColor
	// KindGradient interpolates gradient geometry and every colour stop.
	KindGradient
	// KindStep switches between keyframe values without interpolating.
	KindStep
)

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "number"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindColor:
		return "color"
	case KindGradient:
		return "gradient"
	case KindStep:
		return "step"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// GradientType selects how gradient geometry is read.
type GradientType string

const (
	LinearGradient GradientType = "linear"
	RadialGradient GradientType = "radial"
)

// ColorStop is a colour at a fractional offset along a gradient.
type ColorStop struct {
	Offset float64
	Color  string
}

// Gradient is a linear (X,Y → X2,Y2) or radial (centre X,Y, radius R)
// colour gradient.
type Gradient struct {
	Type       GradientType
	X, Y       float64
	X2, Y2     float64
	R          float64
	ColorStops []ColorStop
}

// Clone returns a copy that shares no memory with g.
func (g Gradient) Clone() Gradient {
	g.ColorStops = append([]ColorStop(nil), g.ColorStops...)
	return g
}

// gradientGeometry is the number of scalar fields flattened ahead of the
// colour stops; each stop flattens to offset plus r, g, b, a.
const (
	gradientGeometry = 5
	gradientStop     = 5
)

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// toVector accepts numeric slices. Non-numeric elements of a []any become
// NaN so they are backfilled during normalisation.
func toVector(v any) ([]float64, bool) {
	switch s := v.(type) {
	case []float64:
		return append([]float64(nil), s...), true
	case []float32:
		out := make([]float64, len(s))
		for i, f := range s {
			out[i] = float64(f)
		}
		return out, true
	case []int:
		out := make([]float64, len(s))
		for i, n := range s {
			out[i] = float64(n)
		}
		return out, true
	case []any:
		out := make([]float64, len(s))
		for i, e := range s {
			f, ok := toFloat(e)
			if !ok {
				if _, nested := toVector(e); nested {
					return nil, false
				}
				f = math.NaN()
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func toMatrix(v any) ([][]float64, bool) {
	switch s := v.(type) {
	case [][]float64:
		out := make([][]float64, len(s))
		for i, row := range s {
			out[i] = append([]float64(nil), row...)
		}
		return out, true
	case []any:
		if len(s) == 0 {
			return nil, false
		}
		out := make([][]float64, len(s))
		for i, e := range s {
			row, ok := toVector(e)
			if !ok {
				return nil, false
			}
			out[i] = row
		}
		return out, true
	}
	return nil, false
}

func toGradient(v any) (Gradient, bool) {
	switch g := v.(type) {
	case Gradient:
		return g, true
	case *Gradient:
		if g == nil {
			return Gradient{}, false
		}
		return *g, true
	}
	return Gradient{}, false
}

// detectKind decides a track's kind from its first keyframe value.
func detectKind(v any) ValueKind {
	if _, ok := toFloat(v); ok {
		return KindNumber
	}
	if _, ok := toGradient(v); ok {
		return KindGradient
	}
	if s, ok := v.(string); ok {
		if _, ok := ParseColor(s); ok {
			return KindColor
		}
		return KindStep
	}
	if isNested(v) {
		if _, ok := toMatrix(v); ok {
			return KindMatrix
		}
	}
	if _, ok := toVector(v); ok {
		return KindVector
	}
	return KindStep
}

func isNested(v any) bool {
	switch s := v.(type) {
	case [][]float64:
		return true
	case []any:
		if len(s) == 0 {
			return false
		}
		_, ok := toVector(s[0])
		return ok
	}
	return false
}

// fitVector truncates or pads v to the length of last, then replaces NaN
// elements with the matching element of last.
func fitVector(v, last []float64) []float64 {
	if len(v) > len(last) {
		v = v[:len(last)]
	}
	for i := len(v); i < len(last); i++ {
		v = append(v, last[i])
	}
	for i := range v {
		if math.IsNaN(v[i]) {
			v[i] = last[i]
		}
	}
	return v
}

func fitMatrix(m, last [][]float64) [][]float64 {
	if len(m) > len(last) {
		m = m[:len(last)]
	}
	for i := len(m); i < len(last); i++ {
		m = append(m, append([]float64(nil), last[i]...))
	}
	for i := range m {
		m[i] = fitVector(m[i], last[i])
	}
	return m
}

func flattenMatrix(m [][]float64) []float64 {
	var out []float64
	for _, row := range m {
		out = append(out, row...)
	}
	return out
}

func unflattenMatrix(flat []float64, shape []int) [][]float64 {
	out := make([][]float64, len(shape))
	off := 0
	for i, n := range shape {
		out[i] = append([]float64(nil), flat[off:off+n]...)
		off += n
	}
	return out
}

// flattenGradient lays a gradient out as geometry followed by one
// [offset, r, g, b, a] group per stop. Unparseable stop colours become NaN.
func flattenGradient(g Gradient) []float64 {
	out := make([]float64, 0, gradientGeometry+gradientStop*len(g.ColorStops))
	out = append(out, g.X, g.Y, g.X2, g.Y2, g.R)
	for _, stop := range g.ColorStops {
		rgba, ok := ParseColor(stop.Color)
		if !ok {
			rgba = RGBA{math.NaN(), math.NaN(), math.NaN(), math.NaN()}
		}
		out = append(out, stop.Offset, rgba[0], rgba[1], rgba[2], rgba[3])
	}
	return out
}

func unflattenGradient(flat []float64, typ GradientType) Gradient {
	g := Gradient{
		Type: typ,
		X:    flat[0],
		Y:    flat[1],
		X2:   flat[2],
		Y2:   flat[3],
		R:    flat[4],
	}
	for off := gradientGeometry; off+gradientStop <= len(flat); off += gradientStop {
		rgba := RGBA{flat[off+1], flat[off+2], flat[off+3], flat[off+4]}
		g.ColorStops = append(g.ColorStops, ColorStop{
			Offset: flat[off],
			Color:  rgba.String(),
		})
	}
	return g
}

// cloneValue deep-copies the slice and gradient shapes a track can hold so a
// baseline keyframe is unaffected by later mutation of the source.
func cloneValue(v any) any {
	switch x := v.(type) {
	case []float64:
		return append([]float64(nil), x...)
	case []float32:
		return append([]float32(nil), x...)
	case []int:
		return append([]int(nil), x...)
	case [][]float64:
		out := make([][]float64, len(x))
		for i, row := range x {
			out[i] = append([]float64(nil), row...)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case Gradient:
		return x.Clone()
	case *Gradient:
		if x == nil {
			return x
		}
		c := x.Clone()
		return &c
	}
	return v
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
